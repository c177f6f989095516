// Package discover implements the DHT-overlay half of the Discovery Server
// (C3): announcing and searching for peers sharing an info-hash, backed by
// Redis standing in for the kademlia mainline DHT this spec's UDP broadcast
// and tracker paths otherwise complement.
package discover

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// PeerAddr is one announced endpoint for an info-hash.
type PeerAddr struct {
	Host string
	Port int
}

// Overlay announces this device's presence under an info-hash and searches
// for peers announced under the same hash. One in-flight announce per hash
// is the caller's responsibility (a map[string]*announceState guarded by a
// mutex), not the overlay's.
type Overlay interface {
	Announce(ctx context.Context, infoHash string, port int) error
	Search(ctx context.Context, infoHash string) ([]PeerAddr, error)
}

// announceTTL bounds how long an announcement survives without renewal
// (§4.3's 18s announce loop renews well inside this window).
const announceTTL = 60 * time.Second

// redisOverlay implements Overlay over a Redis set per info-hash.
type redisOverlay struct {
	client *redis.Client
}

// NewRedisOverlay returns an Overlay backed by the Redis server at addr.
func NewRedisOverlay(addr string) Overlay {
	return &redisOverlay{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func infoHashKey(infoHash string) string {
	return "info:" + infoHash
}

func (o *redisOverlay) Announce(ctx context.Context, infoHash string, port int) error {
	key := infoHashKey(infoHash)
	member := fmt.Sprintf("%s:%d", localAddrPlaceholder, port)

	if err := o.client.SAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("announcing %s: %w", infoHash, err)
	}

	if err := o.client.Expire(ctx, key, announceTTL).Err(); err != nil {
		return fmt.Errorf("setting TTL for %s: %w", infoHash, err)
	}

	return nil
}

func (o *redisOverlay) Search(ctx context.Context, infoHash string) ([]PeerAddr, error) {
	members, err := o.client.SMembers(ctx, infoHashKey(infoHash)).Result()
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", infoHash, err)
	}

	return parseMembers(members)
}

// parseMembers decodes "host:port" set members, skipping any that don't
// parse (a foreign writer into the same Redis key should not wedge Search).
func parseMembers(members []string) ([]PeerAddr, error) {
	peers := make([]PeerAddr, 0, len(members))

	for _, m := range members {
		idx := strings.LastIndex(m, ":")
		if idx < 0 {
			continue
		}

		port, err := strconv.Atoi(m[idx+1:])
		if err != nil {
			continue
		}

		peers = append(peers, PeerAddr{Host: m[:idx], Port: port})
	}

	return peers, nil
}

// Close releases the underlying Redis connection.
func (o *redisOverlay) Close() error {
	return o.client.Close()
}

// localAddrPlaceholder stands in for the announcing device's own address
// until the Broadcaster supplies the real outbound interface IP.
const localAddrPlaceholder = "0.0.0.0"
