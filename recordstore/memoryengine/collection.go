package memoryengine

import (
	"context"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/internal/instrument"
)

// record is what a collection needs to know about the records it holds.
type record[T any] interface {
	id(T) uuid.UUID
	version(T) recordstore.VersionToken
	clone(T) T
}

// collection is a concurrent map of records of one entity.
type collection[T any] struct {
	entity  string
	data    *xsync.MapOf[uuid.UUID, T]
	records record[T]
	in      *instrument.Instrumentation
}

func newCollection[T any](entity string, records record[T], in *instrument.Instrumentation) *collection[T] {
	return &collection[T]{
		entity:  entity,
		data:    xsync.NewMapOf[uuid.UUID, T](),
		records: records,
		in:      in,
	}
}

func (c *collection[T]) getByID(ctx context.Context, id uuid.UUID) (T, error) {
	obs, _ := c.in.Start(ctx, c.entity, instrument.OperationGetByID)
	obs.WithRecordID(id)

	if err := ctx.Err(); err != nil {
		var zero T
		obs.Failure(err, instrument.ErrorTypeQuery)

		return zero, err
	}

	stored, ok := c.data.Load(id)
	if !ok {
		var zero T
		obs.NotFound()

		return zero, notFound(c.entity, id)
	}

	obs.Success(1)

	return c.records.clone(stored), nil
}

func (c *collection[T]) list(ctx context.Context, operation string, keep func(T) bool, sortFn func([]T)) ([]T, error) {
	obs, ctx := c.in.Start(ctx, c.entity, operation)

	result := make([]T, 0)
	c.data.Range(func(_ uuid.UUID, stored T) bool {
		if keep(stored) {
			result = append(result, c.records.clone(stored))
		}

		return ctx.Err() == nil
	})

	if err := ctx.Err(); err != nil {
		obs.Failure(err, instrument.ErrorTypeQuery)
		return nil, err
	}

	sortFn(result)
	obs.Success(len(result))

	return result, nil
}

func (c *collection[T]) add(ctx context.Context, rec T) (T, error) {
	obs, _ := c.in.Start(ctx, c.entity, instrument.OperationAdd)
	obs.WithRecordID(c.records.id(rec))

	if err := ctx.Err(); err != nil {
		var zero T
		obs.Failure(err, instrument.ErrorTypeWrite)

		return zero, err
	}

	if _, loaded := c.data.LoadOrStore(c.records.id(rec), c.records.clone(rec)); loaded {
		var zero T
		obs.Failure(recordstore.ErrRecordAlreadyExists, instrument.ErrorTypeDuplicate)

		return zero, recordstore.ErrRecordAlreadyExists
	}

	obs.Success(-1)

	return c.records.clone(rec), nil
}

// update runs the compare-and-swap. apply builds the record to store from the stored one;
// if it fails, the stored record stays untouched.
func (c *collection[T]) update(
	ctx context.Context,
	id uuid.UUID,
	expected recordstore.VersionToken,
	apply func(stored T) (T, error),
) (T, recordstore.UpdateResult, error) {

	obs, _ := c.in.Start(ctx, c.entity, instrument.OperationUpdate)
	obs.WithRecordID(id)

	if err := ctx.Err(); err != nil {
		var zero T
		obs.Failure(err, instrument.ErrorTypeWrite)

		return zero, 0, err
	}

	var (
		result   recordstore.UpdateResult
		updated  T
		applyErr error
	)

	c.data.Compute(id, func(stored T, loaded bool) (T, bool) {
		if !loaded {
			result = recordstore.UpdateNotFound
			return stored, true
		}

		if !c.records.version(stored).Equal(expected) {
			result = recordstore.UpdateConcurrencyConflict
			return stored, false
		}

		updated, applyErr = apply(stored)
		if applyErr != nil {
			return stored, false
		}

		result = recordstore.UpdateSuccess

		return updated, false
	})

	if applyErr != nil {
		var zero T
		obs.Failure(applyErr, instrument.ErrorTypeInvalid)

		return zero, 0, applyErr
	}

	switch result {
	case recordstore.UpdateNotFound:
		obs.NotFound()
	case recordstore.UpdateConcurrencyConflict:
		obs.Conflict()
	default:
		obs.Success(-1)
		updated = c.records.clone(updated)
	}

	return updated, result, nil
}

func (c *collection[T]) delete(ctx context.Context, id uuid.UUID) (bool, error) {
	obs, _ := c.in.Start(ctx, c.entity, instrument.OperationDelete)
	obs.WithRecordID(id)

	if err := ctx.Err(); err != nil {
		obs.Failure(err, instrument.ErrorTypeWrite)
		return false, err
	}

	if _, deleted := c.data.LoadAndDelete(id); !deleted {
		obs.NotFound()
		return false, nil
	}

	obs.Success(-1)

	return true, nil
}

func (c *collection[T]) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	obs, _ := c.in.Start(ctx, c.entity, instrument.OperationExists)
	obs.WithRecordID(id)

	if err := ctx.Err(); err != nil {
		obs.Failure(err, instrument.ErrorTypeQuery)
		return false, err
	}

	_, ok := c.data.Load(id)
	obs.Success(-1)

	return ok, nil
}
