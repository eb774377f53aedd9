package catalog

import (
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	"github.com/pkgsel/pkgsel/database"
	"github.com/pkgsel/pkgsel/pkgsel"
)

// recordPrefix is key prefix for all records in the database
var recordPrefix = []byte("P")

func recordKey(name string) []byte {
	return append(append([]byte(nil), recordPrefix...), name...)
}

// Collection does management of records in DB
//
// Records are iterated in key order, which is order of names.
type Collection struct {
	db database.Storage
}

// NewCollection creates new Collection and binds it to database
func NewCollection(db database.Storage) *Collection {
	return &Collection{
		db: db,
	}
}

func encodeRecord(r Record) ([]byte, error) {
	var encoded []byte
	err := codec.NewEncoderBytes(&encoded, &codec.MsgpackHandle{}).Encode(r)
	return encoded, err
}

func decodeRecord(encoded []byte) (Record, error) {
	r := Record{}
	err := codec.NewDecoderBytes(encoded, &codec.MsgpackHandle{}).Decode(&r)
	return r, err
}

// Update stores record, replacing record with the same name
func (collection *Collection) Update(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	encoded, err := encodeRecord(r)
	if err != nil {
		return errors.Wrapf(err, "unable to encode %s", r.Name())
	}

	return collection.db.Put(recordKey(r.Name()), encoded)
}

// ByName finds record in DB by its name
func (collection *Collection) ByName(name string) (Record, error) {
	encoded, err := collection.db.Get(recordKey(name))
	if err != nil {
		if err == database.ErrNotFound {
			return nil, errors.Wrapf(err, "package %s", name)
		}
		return nil, err
	}

	r, err := decodeRecord(encoded)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode %s", name)
	}
	return r, nil
}

// ForEach iterates through all the records in name order
func (collection *Collection) ForEach(handler func(Record) error) error {
	return collection.db.ProcessByPrefix(recordPrefix, func(key, value []byte) error {
		r, err := decodeRecord(value)
		if err != nil {
			return errors.Wrapf(err, "unable to decode %s", key[len(recordPrefix):])
		}
		return handler(r)
	})
}

// List loads whole catalog into memory
func (collection *Collection) List() (*RecordList, error) {
	list := NewRecordList()
	err := collection.ForEach(list.Add)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Len returns number of records in DB
func (collection *Collection) Len() int {
	return len(collection.db.KeysByPrefix(recordPrefix))
}

// ReplaceRepo makes records of repo in DB equal to records, in a single batch
//
// Records of other repos are kept, unless records replace them by name.
func (collection *Collection) ReplaceRepo(repo string, records []Record, reporter pkgsel.ResultReporter) error {
	incoming := make(map[string]bool, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		incoming[r.Name()] = true
	}

	batch := collection.db.CreateBatch()
	existing := map[string]bool{}

	err := collection.ForEach(func(r Record) error {
		existing[r.Name()] = true
		if incoming[r.Name()] || !hasValue(r[AttrRepo], repo) {
			return nil
		}
		reporter.Removed("%s from %s", r.Name(), repo)
		return batch.Delete(recordKey(r.Name()))
	})
	if err != nil {
		return err
	}

	for _, r := range records {
		encoded, err := encodeRecord(r)
		if err != nil {
			return errors.Wrapf(err, "unable to encode %s", r.Name())
		}
		if !existing[r.Name()] {
			reporter.Added("%s to %s", r.Name(), repo)
		}
		if err = batch.Put(recordKey(r.Name()), encoded); err != nil {
			return err
		}
	}

	return errors.Wrapf(batch.Write(), "unable to update repo %s", repo)
}

// Compact reclaims space left by replaced and removed records
func (collection *Collection) Compact() error {
	return errors.Wrap(collection.db.CompactDB(), "unable to compact catalog database")
}

func hasValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
