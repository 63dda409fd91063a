package client

import (
	"errors"
	"strconv"

	"github.com/tidwall/buntdb"
)

// Keys persisted between dashboard runs
const (
	KeyAdminToken          = "adminToken"
	KeyCurrentTable        = "current_table"
	KeyCurrentToken        = "current_token"
	KeyCurrentWaiterCallID = "current_waiter_call_id"
	KeySoundConsent        = "notification_sound_consent"
)

// LocalStore keeps the dashboard state in a buntdb file.
// It also serves as the consent store of the notification sound gate.
type LocalStore struct {
	db *buntdb.DB
}

// OpenLocalStore opens or creates the store at path; ":memory:" keeps it in memory
func OpenLocalStore(path string) (*LocalStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &LocalStore{db: db}, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Get returns the stored value or an empty string when the key is unset
func (s *LocalStore) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", nil
	}
	return value, err
}

func (s *LocalStore) Set(key, value string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, nil)
		return err
	})
}

func (s *LocalStore) Delete(keys ...string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		for _, key := range keys {
			if _, err := tx.Delete(key); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
				return err
			}
		}
		return nil
	})
}

func (s *LocalStore) AdminToken() (string, error) {
	return s.Get(KeyAdminToken)
}

func (s *LocalStore) SetAdminToken(token string) error {
	return s.Set(KeyAdminToken, token)
}

// ClearTokens forgets the dashboard credentials after the API rejected them
func (s *LocalStore) ClearTokens() error {
	return s.Delete(KeyAdminToken)
}

// Table returns the label and QR token of the table the device sits at
func (s *LocalStore) Table() (label, token string, err error) {
	if label, err = s.Get(KeyCurrentTable); err != nil {
		return "", "", err
	}
	if token, err = s.Get(KeyCurrentToken); err != nil {
		return "", "", err
	}
	return label, token, nil
}

func (s *LocalStore) SetTable(label, token string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(KeyCurrentTable, label, nil); err != nil {
			return err
		}
		_, _, err := tx.Set(KeyCurrentToken, token, nil)
		return err
	})
}

// WaiterCallID returns the last waiter call placed from this device, 0 when none
func (s *LocalStore) WaiterCallID() (uint, error) {
	raw, err := s.Get(KeyCurrentWaiterCallID)
	if err != nil || raw == "" {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, nil
	}
	return uint(id), nil
}

func (s *LocalStore) SetWaiterCallID(id uint) error {
	return s.Set(KeyCurrentWaiterCallID, strconv.FormatUint(uint64(id), 10))
}

// Consent reports whether the user enabled notification sounds
func (s *LocalStore) Consent() (bool, error) {
	raw, err := s.Get(KeySoundConsent)
	if err != nil {
		return false, err
	}
	return raw == "true", nil
}

func (s *LocalStore) SetConsent(granted bool) error {
	if !granted {
		return s.Delete(KeySoundConsent)
	}
	return s.Set(KeySoundConsent, "true")
}
