package identity

import (
	"crypto/sha1" //nolint:gosec // required by the wire format and KDF hash (§4.2)

	"golang.org/x/crypto/pbkdf2"
)

// accountKeySalt is the fixed salt used to derive the account key from the
// account name alone (§4.2 "Account key is derived by a standard KDF from
// the account name, not the password"). It is fixed, not random, because
// every device of the same account must derive the identical key without
// exchanging one.
var accountKeySalt = []byte("zisync-account-key-v1")

const (
	accountKeyIterations = 100_000
	accountKeyLength     = 32
)

// DeriveAccountKey derives the shared AES key for this account from the
// account name via PBKDF2-HMAC-SHA1 (§4.2, §7 GLOSSARY "Account key").
func DeriveAccountKey(accountName string) []byte {
	return pbkdf2.Key([]byte(accountName), accountKeySalt, accountKeyIterations, accountKeyLength, sha1.New) //nolint:gosec // KDF hash mandated, not a password hash
}

// tokenSalt is the fixed salt mixed into the token SHA1 derivation.
var tokenSalt = []byte("zisync-token-sha1-v1")

// DeriveTokenSHA1 computes SHA1(account_name || password || fixed_salt),
// exchanged in every DeviceMeta reply to let a peer decide is_mine (§4.2,
// §7 GLOSSARY "Token SHA1").
func DeriveTokenSHA1(accountName, password string) []byte {
	h := sha1.New() //nolint:gosec // wire-format requirement, not used for password storage
	h.Write([]byte(accountName))
	h.Write([]byte(password))
	h.Write(tokenSalt)

	return h.Sum(nil)
}
