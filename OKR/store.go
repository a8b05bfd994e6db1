package OKR

import (
	"errors"
	"log"

	"Summit/Models"

	"gorm.io/gorm"
)

// SyncStore persists the flat record list per tenant with full-replace
// semantics: a save deletes the tenant's rows and inserts the new set inside
// one transaction. Reads fail soft so an unreachable backend behaves like an
// empty tenant.
type SyncStore struct {
	DB        *gorm.DB
	initError string
}

func NewSyncStore(db *gorm.DB, initError string) *SyncStore {
	return &SyncStore{DB: db, initError: initError}
}

// InitError reports the startup connection failure, if any.
func (s *SyncStore) InitError() string {
	return s.initError
}

// Load fetches every record for the tenant. Any failure, including a backend
// that never came up, logs and returns an empty slice.
func (s *SyncStore) Load(tenant string) []Models.OKRRecord {
	if s.DB == nil {
		return nil
	}
	var records []Models.OKRRecord
	if err := s.DB.Where("tenant = ?", tenant).Order("id").Find(&records).Error; err != nil {
		log.Printf("okr load failed for tenant %s: %v", tenant, err)
		return nil
	}
	return records
}

// Save replaces the tenant's rows with records, stamping each with the tenant
// first. All-or-nothing: a failed insert rolls the delete back. An empty
// record set is a valid save that leaves the tenant with zero rows.
func (s *SyncStore) Save(records []Models.OKRRecord, tenant string) error {
	if s.DB == nil {
		return errors.New("storage backend unavailable: " + s.initError)
	}
	for i := range records {
		records[i].Tenant = tenant
		// rows carried over from a previous load keep their old surrogate id;
		// zero it so the insert always allocates fresh keys
		records[i].ID = 0
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant = ?", tenant).Delete(&Models.OKRRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}
