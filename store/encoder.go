package store

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v4"
	"gitlab.com/darcyk/darcyk"
)

// MakeKey of a predicate and id
func MakeKey(id []byte, predicate string) []byte {
	key := []byte(predicate)
	key = append(key, byte(':'))
	key = append(key, id...)
	return key
}

// GetID of key from a pred:key
func GetID(key []byte) []byte {
	split := bytes.SplitN(key, []byte(":"), 2)
	if len(split) == 1 {
		return []byte{}
	}
	return split[1]
}

// GetPredicate from pred:key
func GetPredicate(key []byte) []byte {
	split := bytes.SplitN(key, []byte(":"), 2)
	return split[0]
}

// CookieID identifies a cookie the way browsers do, by name, domain and path
func CookieID(c *darcyk.Cookie) []byte {
	path := c.Path
	if path == "" {
		path = "/"
	}
	return []byte(darcyk.StripPort(c.Domain) + "|" + path + "|" + c.Name)
}

// EncodeCookie into msgpack
func EncodeCookie(c *darcyk.Cookie) ([]byte, error) {
	return msgpack.Marshal(c)
}

// DecodeCookie from msgpack
func DecodeCookie(val []byte) (*darcyk.Cookie, error) {
	c := &darcyk.Cookie{}
	if err := msgpack.Unmarshal(val, c); err != nil {
		return nil, err
	}
	return c, nil
}
