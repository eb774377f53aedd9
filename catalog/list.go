package catalog

import (
	"fmt"
)

// RecordList is ordered in-memory set of records, unique by name
type RecordList struct {
	records []Record
	index   map[string]int
}

// NewRecordList creates empty list
func NewRecordList() *RecordList {
	return &RecordList{index: map[string]int{}}
}

// NewRecordListFromRecords builds list keeping order of records
func NewRecordListFromRecords(records []Record) (*RecordList, error) {
	list := NewRecordList()
	for _, r := range records {
		if err := list.Add(r); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Add appends record to the end of list
func (l *RecordList) Add(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	name := r.Name()
	if _, exists := l.index[name]; exists {
		return fmt.Errorf("duplicate record %s", name)
	}
	l.index[name] = len(l.records)
	l.records = append(l.records, r)
	return nil
}

// Len returns number of records
func (l *RecordList) Len() int {
	return len(l.records)
}

// Records returns records in list order
func (l *RecordList) Records() []Record {
	return l.records
}

// ByName looks up record, returning nil if it's missing
func (l *RecordList) ByName(name string) Record {
	if i, ok := l.index[name]; ok {
		return l.records[i]
	}
	return nil
}

// Names returns record names in list order
func (l *RecordList) Names() []string {
	result := make([]string, len(l.records))
	for i, r := range l.records {
		result[i] = r.Name()
	}
	return result
}

// ForEach calls handler for each record in order, stopping on first error
func (l *RecordList) ForEach(handler func(Record) error) error {
	for _, r := range l.records {
		if err := handler(r); err != nil {
			return err
		}
	}
	return nil
}

// Annotate fills category and tag attributes from secondary indexes
func (l *RecordList) Annotate(categories Categories, tags map[string][]string) {
	for _, r := range l.records {
		if categories != nil {
			r.Set(AttrCategory, categories[r.Name()])
		}
		if tags != nil {
			r.Set(AttrTag, tags[r.Name()])
		}
	}
}
