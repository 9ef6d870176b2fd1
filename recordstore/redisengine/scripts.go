package redisengine

import (
	"github.com/redis/go-redis/v9"
)

const (
	casUpdated  = 1
	casConflict = 0
	casNotFound = -1
)

// casUpdateScript replaces the record if its version equals the expected one.
//
// KEYS[1] record hash
// ARGV[1] expected version, ARGV[2] new document, ARGV[3] new version
var casUpdateScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if not current then
	return -1
end
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'version', ARGV[3])
return 1
`)

// deleteScript removes the record hash and its index entry.
//
// KEYS[1] record hash, KEYS[2] index
// ARGV[1] id
var deleteScript = redis.NewScript(`
local removed = redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
return removed
`)
