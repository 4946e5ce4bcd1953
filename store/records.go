package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"gorm.io/gorm"
)

// Record is implemented by every model kept in a collection.
type Record interface {
	TableName() string
	RecordKey() any
}

type recordPtr[T any] interface {
	*T
	Record
}

func isZeroKey(key any) bool {
	return key == nil || reflect.ValueOf(key).IsZero()
}

// Create inserts rec, which must be a pointer so the assigned id is written
// back. Auto-id collections assign a new id when the key is zero; keyed
// collections require one. An existing key fails with ErrConstraintViolation.
func (s *Store) Create(ctx context.Context, rec Record) error {
	coll, ok := lookupCollection(rec.TableName())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, rec.TableName())
	}

	key := rec.RecordKey()
	if isZeroKey(key) {
		if !coll.autoID {
			return fmt.Errorf("create %s: %w", coll.name, ErrMissingKey)
		}
		return wrapErr("create", coll.name, s.db.WithContext(ctx).Create(rec).Error)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(coll.name).Where("id = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: key %v already exists", ErrConstraintViolation, key)
		}
		return tx.Create(rec).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = fmt.Errorf("%w: key %v already exists", ErrConstraintViolation, key)
	}
	return wrapErr("create", coll.name, err)
}

// Update replaces the record with rec's key, inserting it when absent.
func (s *Store) Update(ctx context.Context, rec Record) error {
	coll, ok := lookupCollection(rec.TableName())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, rec.TableName())
	}
	if isZeroKey(rec.RecordKey()) && !coll.autoID {
		return fmt.Errorf("update %s: %w", coll.name, ErrMissingKey)
	}
	return wrapErr("update", coll.name, s.db.WithContext(ctx).Save(rec).Error)
}

// GetByID returns the record with key, or nil when there is none.
func GetByID[T any, PT recordPtr[T]](ctx context.Context, s *Store, key any) (*T, error) {
	var rec T
	name := PT(&rec).TableName()

	err := s.db.WithContext(ctx).Where("id = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get", name, err)
	}
	return &rec, nil
}

// GetAll returns the whole collection in key order.
func GetAll[T any, PT recordPtr[T]](ctx context.Context, s *Store) ([]T, error) {
	var zero T
	name := PT(&zero).TableName()

	records := []T{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, wrapErr("get all", name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// GetByIndex returns the records whose indexed attribute equals value.
func GetByIndex[T any, PT recordPtr[T]](ctx context.Context, s *Store, index string, value any) ([]T, error) {
	var zero T
	name := PT(&zero).TableName()

	coll, ok := lookupCollection(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	column, ok := coll.indexes[index]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownIndex, name, index)
	}

	if t, ok := value.(time.Time); ok {
		value = t.UTC()
	}

	records := []T{}
	if err := s.db.WithContext(ctx).Where(column+" = ?", value).Order("id ASC").Find(&records).Error; err != nil {
		return nil, wrapErr("get by index", name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Delete removes the record with key. Missing keys are not an error.
func Delete[T any, PT recordPtr[T]](ctx context.Context, s *Store, key any) error {
	var zero T
	name := PT(&zero).TableName()
	return wrapErr("delete", name, s.db.WithContext(ctx).Where("id = ?", key).Delete(PT(&zero)).Error)
}

// Count returns the number of records in the collection.
func Count[T any, PT recordPtr[T]](ctx context.Context, s *Store) (int64, error) {
	var zero T
	name := PT(&zero).TableName()

	var count int64
	if err := s.db.WithContext(ctx).Model(PT(&zero)).Count(&count).Error; err != nil {
		return 0, wrapErr("count", name, err)
	}
	return count, nil
}
