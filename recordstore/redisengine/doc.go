// Package redisengine provides a Redis implementation of the recordstore repositories.
//
// Every record is a hash with two fields: "data" holds the JSON document, "version" the raw
// version token bytes. A sorted set per entity indexes the ids, scored by creation time for
// movies and by rental date for rentals.
//
//	{movielibrary}:movie:<id>   HASH  data, version
//	{movielibrary}:movies       ZSET  <id> -> created_at (unix micros)
//	{movielibrary}:rental:<id>  HASH  data, version
//	{movielibrary}:rentals      ZSET  <id> -> rental_date (unix micros)
//
// The compare-and-swap update and the delete run as Lua scripts, so each is atomic on the server.
// Add uses WATCH and a MULTI/EXEC pipeline. The braces in the default key prefix keep all keys
// in one hash slot, which makes the engine usable with Redis Cluster.
package redisengine
