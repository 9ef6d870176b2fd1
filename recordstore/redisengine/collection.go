package redisengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/internal/instrument"
)

const (
	fieldData    = "data"
	fieldVersion = "version"

	logActionRead  = "read"
	logActionWrite = "write"
)

// codec describes how the records of one entity are keyed, scored and serialized.
type codec[T any] struct {
	entity  string
	index   string
	id      func(T) uuid.UUID
	version func(T) recordstore.VersionToken
	score   func(T) float64
	encode  func(T) ([]byte, error)
	decode  func(data []byte, version []byte) (T, error)
}

type collection[T any] struct {
	client redis.UniversalClient
	prefix string
	codec  codec[T]
	in     *instrument.Instrumentation
}

func (c *collection[T]) recordKey(id uuid.UUID) string {
	return c.prefix + ":" + c.codec.entity + ":" + id.String()
}

func (c *collection[T]) indexKey() string {
	return c.prefix + ":" + c.codec.index
}

func (c *collection[T]) getByID(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T

	obs, ctx := c.in.Start(ctx, c.codec.entity, instrument.OperationGetByID)
	obs.WithRecordID(id)

	rec, found, err := c.load(ctx, obs, id)
	if err != nil {
		return zero, err
	}

	if !found {
		obs.NotFound()
		return zero, fmt.Errorf("%w: %s %s", recordstore.ErrNotFound, c.codec.entity, id)
	}

	obs.Success(1)

	return rec, nil
}

// load reads and decodes one record.
func (c *collection[T]) load(ctx context.Context, obs *instrument.Observation, id uuid.UUID) (T, bool, error) {
	var zero T

	start := time.Now()
	values, hmgetErr := c.client.HMGet(ctx, c.recordKey(id), fieldData, fieldVersion).Result()
	c.in.LogStatement(ctx, "HMGET "+c.recordKey(id), logActionRead, time.Since(start))

	if hmgetErr != nil {
		err := errors.Join(recordstore.ErrQueryingFailed, hmgetErr)
		obs.Failure(err, instrument.ErrorTypeQuery)

		return zero, false, err
	}

	return c.decodeValues(obs, values)
}

func (c *collection[T]) decodeValues(obs *instrument.Observation, values []any) (T, bool, error) {
	var zero T

	data, dataOK := values[0].(string)
	version, versionOK := values[1].(string)

	if !dataOK || !versionOK {
		return zero, false, nil
	}

	rec, decodeErr := c.codec.decode([]byte(data), []byte(version))
	if decodeErr != nil {
		err := errors.Join(recordstore.ErrDecodingRecordFailed, decodeErr)
		obs.Failure(err, instrument.ErrorTypeDecode)

		return zero, false, err
	}

	return rec, true, nil
}

func (c *collection[T]) list(ctx context.Context, operation string, keep func(T) bool, sortFn func([]T)) ([]T, error) {
	obs, ctx := c.in.Start(ctx, c.codec.entity, operation)

	start := time.Now()
	ids, zrangeErr := c.client.ZRange(ctx, c.indexKey(), 0, -1).Result()
	c.in.LogStatement(ctx, "ZRANGE "+c.indexKey(), logActionRead, time.Since(start))

	if zrangeErr != nil {
		err := errors.Join(recordstore.ErrQueryingFailed, zrangeErr)
		obs.Failure(err, instrument.ErrorTypeQuery)

		return nil, err
	}

	start = time.Now()
	pipe := c.client.Pipeline()
	cmds := make([]*redis.SliceCmd, 0, len(ids))

	for _, id := range ids {
		cmds = append(cmds, pipe.HMGet(ctx, c.prefix+":"+c.codec.entity+":"+id, fieldData, fieldVersion))
	}

	if len(cmds) > 0 {
		if _, execErr := pipe.Exec(ctx); execErr != nil {
			err := errors.Join(recordstore.ErrQueryingFailed, execErr)
			obs.Failure(err, instrument.ErrorTypeQuery)

			return nil, err
		}
	}

	c.in.LogStatement(ctx, fmt.Sprintf("HMGET x%d", len(cmds)), logActionRead, time.Since(start))

	result := make([]T, 0, len(cmds))

	for _, cmd := range cmds {
		rec, found, err := c.decodeValues(obs, cmd.Val())
		if err != nil {
			return nil, err
		}

		// deleted between ZRANGE and HMGET
		if !found {
			continue
		}

		if keep(rec) {
			result = append(result, rec)
		}
	}

	sortFn(result)
	obs.Success(len(result))

	return result, nil
}

func (c *collection[T]) add(ctx context.Context, rec T) (T, error) {
	var zero T

	id := c.codec.id(rec)
	key := c.recordKey(id)

	obs, ctx := c.in.Start(ctx, c.codec.entity, instrument.OperationAdd)
	obs.WithRecordID(id)

	data, encodeErr := c.codec.encode(rec)
	if encodeErr != nil {
		err := errors.Join(recordstore.ErrEncodingRecordFailed, encodeErr)
		obs.Failure(err, instrument.ErrorTypeEncode)

		return zero, err
	}

	start := time.Now()
	watchErr := c.client.Watch(ctx, func(tx *redis.Tx) error {
		existing, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}

		if existing > 0 {
			return recordstore.ErrRecordAlreadyExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldData, data, fieldVersion, []byte(c.codec.version(rec)))
			pipe.ZAdd(ctx, c.indexKey(), redis.Z{Score: c.codec.score(rec), Member: id.String()})

			return nil
		})

		return err
	}, key)
	c.in.LogStatement(ctx, "MULTI HSET ZADD "+key, logActionWrite, time.Since(start))

	switch {
	case watchErr == nil:
		obs.Success(-1)
		return rec, nil

	case errors.Is(watchErr, recordstore.ErrRecordAlreadyExists), errors.Is(watchErr, redis.TxFailedErr):
		obs.Failure(recordstore.ErrRecordAlreadyExists, instrument.ErrorTypeDuplicate)
		return zero, recordstore.ErrRecordAlreadyExists

	default:
		err := errors.Join(recordstore.ErrWritingFailed, watchErr)
		obs.Failure(err, instrument.ErrorTypeWrite)

		return zero, err
	}
}

// update runs the compare-and-swap script. apply builds the record to store from the currently stored one,
// which only contributes fields that never change after Add.
func (c *collection[T]) update(
	ctx context.Context,
	id uuid.UUID,
	expected recordstore.VersionToken,
	apply func(stored T) (T, error),
) (T, recordstore.UpdateResult, error) {

	var zero T

	obs, ctx := c.in.Start(ctx, c.codec.entity, instrument.OperationUpdate)
	obs.WithRecordID(id)

	stored, found, err := c.load(ctx, obs, id)
	if err != nil {
		return zero, 0, err
	}

	if !found {
		obs.NotFound()
		return zero, recordstore.UpdateNotFound, nil
	}

	next, applyErr := apply(stored)
	if applyErr != nil {
		obs.Failure(applyErr, instrument.ErrorTypeInvalid)
		return zero, 0, applyErr
	}

	data, encodeErr := c.codec.encode(next)
	if encodeErr != nil {
		err = errors.Join(recordstore.ErrEncodingRecordFailed, encodeErr)
		obs.Failure(err, instrument.ErrorTypeEncode)

		return zero, 0, err
	}

	start := time.Now()
	outcome, runErr := casUpdateScript.Run(
		ctx,
		c.client,
		[]string{c.recordKey(id)},
		[]byte(expected),
		data,
		[]byte(c.codec.version(next)),
	).Int()
	c.in.LogStatement(ctx, "EVALSHA cas_update "+c.recordKey(id), logActionWrite, time.Since(start))

	if runErr != nil {
		err = errors.Join(recordstore.ErrWritingFailed, runErr)
		obs.Failure(err, instrument.ErrorTypeWrite)

		return zero, 0, err
	}

	switch outcome {
	case casUpdated:
		obs.Success(-1)
		return next, recordstore.UpdateSuccess, nil

	case casConflict:
		obs.Conflict()
		return zero, recordstore.UpdateConcurrencyConflict, nil

	default:
		obs.NotFound()
		return zero, recordstore.UpdateNotFound, nil
	}
}

func (c *collection[T]) delete(ctx context.Context, id uuid.UUID) (bool, error) {
	obs, ctx := c.in.Start(ctx, c.codec.entity, instrument.OperationDelete)
	obs.WithRecordID(id)

	start := time.Now()
	removed, runErr := deleteScript.Run(ctx, c.client, []string{c.recordKey(id), c.indexKey()}, id.String()).Int()
	c.in.LogStatement(ctx, "EVALSHA delete "+c.recordKey(id), logActionWrite, time.Since(start))

	if runErr != nil {
		err := errors.Join(recordstore.ErrWritingFailed, runErr)
		obs.Failure(err, instrument.ErrorTypeWrite)

		return false, err
	}

	if removed == 0 {
		obs.NotFound()
		return false, nil
	}

	obs.Success(-1)

	return true, nil
}

func (c *collection[T]) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	obs, ctx := c.in.Start(ctx, c.codec.entity, instrument.OperationExists)
	obs.WithRecordID(id)

	start := time.Now()
	n, existsErr := c.client.Exists(ctx, c.recordKey(id)).Result()
	c.in.LogStatement(ctx, "EXISTS "+c.recordKey(id), logActionRead, time.Since(start))

	if existsErr != nil {
		err := errors.Join(recordstore.ErrQueryingFailed, existsErr)
		obs.Failure(err, instrument.ErrorTypeQuery)

		return false, err
	}

	obs.Success(-1)

	return n > 0, nil
}
