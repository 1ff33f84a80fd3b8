package wallet

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketMeta     = []byte("meta")
	bucketAccounts = []byte("accounts")

	keySeed      = []byte("seed")
	keyNextIndex = []byte("next_index")
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// Account is a named signing account.
type Account struct {
	Alias     string
	Index     uint32
	PublicKey string // compressed, hex
	Created   time.Time
}

// Path returns the account key's derivation path.
func (a Account) Path() string { return AccountPath(a.Index) }

// Keystore is a bbolt-backed HD keystore. It is safe for concurrent use.
type Keystore struct {
	db *bbolt.DB
	hd *HD
}

func openDB(path string) (*bbolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("wallet: create directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("wallet: open keystore: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketAccounts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("wallet: %w", err)
	}
	return db, nil
}

// Create initializes a keystore at path from mnemonic and passphrase, with
// the seed encrypted under password. It fails with ErrAlreadyInitialized if
// the file already holds a seed.
func Create(path, mnemonic, passphrase, password string) (*Keystore, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	hd, err := NewHD(seed)
	if err != nil {
		return nil, err
	}
	enc, err := EncryptSeed(seed, password)
	if err != nil {
		return nil, err
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta.Get(keySeed) != nil {
			return ErrAlreadyInitialized
		}
		return meta.Put(keySeed, enc)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Keystore{db: db, hd: hd}, nil
}

// Open opens an initialized keystore and decrypts its seed with password.
func Open(path, password string) (*Keystore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	var enc []byte
	_ = db.View(func(tx *bbolt.Tx) error {
		enc = bytes.Clone(tx.Bucket(bucketMeta).Get(keySeed))
		return nil
	})
	if enc == nil {
		_ = db.Close()
		return nil, ErrNotInitialized
	}

	seed, err := DecryptSeed(enc, password)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	hd, err := NewHD(seed)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Keystore{db: db, hd: hd}, nil
}

// Close closes the keystore file.
func (k *Keystore) Close() error { return k.db.Close() }

// Add registers alias under the next free account index.
func (k *Keystore) Add(alias string) (*Account, error) {
	if !aliasPattern.MatchString(alias) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlias, alias)
	}

	var acct *Account
	err := k.db.Update(func(tx *bbolt.Tx) error {
		accounts := tx.Bucket(bucketAccounts)
		if accounts.Get([]byte(alias)) != nil {
			return fmt.Errorf("%w: %q", ErrAccountExists, alias)
		}

		meta := tx.Bucket(bucketMeta)
		var index uint32
		if b := meta.Get(keyNextIndex); len(b) == 4 {
			index = binary.BigEndian.Uint32(b)
		}
		if index > MaxAccountIndex {
			return ErrAccountLimit
		}

		kp, err := k.hd.DeriveAccountKey(index)
		if err != nil {
			return err
		}
		acct = &Account{
			Alias:     alias,
			Index:     index,
			PublicKey: kp.PublicKeyHex(),
			Created:   time.Now().UTC(),
		}

		data, err := encodeGob(acct)
		if err != nil {
			return fmt.Errorf("wallet: encode account: %w", err)
		}
		if err := accounts.Put([]byte(alias), data); err != nil {
			return fmt.Errorf("wallet: put account: %w", err)
		}
		next := make([]byte, 4)
		binary.BigEndian.PutUint32(next, index+1)
		return meta.Put(keyNextIndex, next)
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Account returns the account registered under alias.
func (k *Keystore) Account(alias string) (*Account, error) {
	var acct Account
	err := k.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get([]byte(alias))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrAccountNotFound, alias)
		}
		return decodeGob(data, &acct)
	})
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// List returns all accounts ordered by index.
func (k *Keystore) List() ([]Account, error) {
	var out []Account
	err := k.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(_, v []byte) error {
			var acct Account
			if err := decodeGob(v, &acct); err != nil {
				return fmt.Errorf("wallet: decode account: %w", err)
			}
			out = append(out, acct)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// KeyOf resolves alias to its signing key pair.
func (k *Keystore) KeyOf(alias string) (*KeyPair, error) {
	acct, err := k.Account(alias)
	if err != nil {
		return nil, err
	}
	return k.hd.DeriveAccountKey(acct.Index)
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
