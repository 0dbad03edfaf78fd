package store

import (
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/darcyk/darcyk"
)

const (
	cookiePredicate = "cookie"
	metaPredicate   = "meta"
	jarVersion      = "1"
)

// CookieJar is a persistent darcyk.CookieManager, sessions are exported from a browser
// into it and imported back later
type CookieJar struct {
	Store    *badger.DB
	filepath string
}

// NewCookieJar stored under filepath, empty for an in memory jar
func NewCookieJar(filepath string) *CookieJar {
	return &CookieJar{filepath: filepath}
}

// Init the cookie storage
func (s *CookieJar) Init() error {
	var err error

	if s.filepath == "" {
		s.Store, err = badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{}))
		if err != nil {
			return err
		}
		return s.stamp()
	}

	if err = os.MkdirAll(s.filepath, 0700); err != nil {
		return err
	}

	opts := badger.DefaultOptions(s.filepath).WithLogger(badgerLogger{})
	s.Store, err = badger.Open(opts)

	if errors.Is(err, badger.ErrTruncateNeeded) {
		log.Warn().Msg("there was a failure re-opening database, trying to recover")
		opts.Truncate = true
		s.Store, err = badger.Open(opts)
	}
	if err != nil {
		return err
	}
	return s.stamp()
}

// stamp records the jar layout version next to the cookies
func (s *CookieJar) stamp() error {
	return s.Store.Update(func(txn *badger.Txn) error {
		return txn.Set(MakeKey([]byte("version"), metaPredicate), []byte(jarVersion))
	})
}

// eachCookie calls fn with every cookie entry, skipping jar metadata
func eachCookie(txn *badger.Txn, fn func(item *badger.Item) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		if string(GetPredicate(item.Key())) != cookiePredicate {
			continue
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

func (s *CookieJar) Add(cookie *darcyk.Cookie) error {
	if err := cookie.Validate(); err != nil {
		return err
	}
	val, err := EncodeCookie(cookie)
	if err != nil {
		return err
	}
	return s.Store.Update(func(txn *badger.Txn) error {
		return txn.Set(MakeKey(CookieID(cookie), cookiePredicate), val)
	})
}

func (s *CookieJar) Delete(cookie *darcyk.Cookie) error {
	return s.Store.Update(func(txn *badger.Txn) error {
		return txn.Delete(MakeKey(CookieID(cookie), cookiePredicate))
	})
}

func (s *CookieJar) DeleteAll() error {
	return s.Store.Update(func(txn *badger.Txn) error {
		keys := make([][]byte, 0)
		err := eachCookie(txn, func(item *badger.Item) error {
			keys = append(keys, item.KeyCopy(nil))
			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// All cookies ordered by domain, path and name
func (s *CookieJar) All() ([]*darcyk.Cookie, error) {
	cookies := make([]*darcyk.Cookie, 0)
	err := s.Store.View(func(txn *badger.Txn) error {
		return eachCookie(txn, func(item *badger.Item) error {
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			c, err := DecodeCookie(val)
			if err != nil {
				return errors.Wrapf(err, "failed to decode cookie %s", GetID(item.KeyCopy(nil)))
			}
			cookies = append(cookies, c)
			return nil
		})
	})
	return cookies, err
}

func (s *CookieJar) Get(cookie *darcyk.Cookie) (*darcyk.Cookie, error) {
	var found *darcyk.Cookie
	err := s.Store.View(func(txn *badger.Txn) error {
		item, err := txn.Get(MakeKey(CookieID(cookie), cookiePredicate))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			found, err = DecodeCookie(val)
			return err
		})
	})
	return found, err
}

func (s *CookieJar) Named(name string) (*darcyk.Cookie, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

// Close the cookie store
func (s *CookieJar) Close() error {
	return s.Store.Close()
}

// CopyCookies from src to dst, skipping cookies that expired before now. Returns the
// number copied.
func CopyCookies(dst, src darcyk.CookieManager, now time.Time) (int, error) {
	all, err := src.All()
	if err != nil {
		return 0, err
	}
	live := darcyk.CookiesAfterTime(all, now)
	for _, c := range live {
		if err := dst.Add(c); err != nil {
			return 0, errors.Wrapf(err, "failed to copy cookie %s", c.Name)
		}
	}
	return len(live), nil
}
