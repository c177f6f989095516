package identity

import (
	"os"
	"strconv"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func atoi(s string) (int, error) {
	return strconv.Atoi(s)
}

func hostnameSafe() (string, error) {
	return os.Hostname()
}
