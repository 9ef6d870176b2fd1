package postgresengine

import "fmt"

func schemaStatements(movieTable, rentalTable string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id           uuid             PRIMARY KEY,
	title        text             NOT NULL,
	director     text             NOT NULL DEFAULT '',
	genre        text             NOT NULL DEFAULT '',
	description  text             NOT NULL DEFAULT '',
	release_year integer          NULL,
	rating       double precision NULL,
	created_at   timestamptz      NOT NULL,
	updated_at   timestamptz      NOT NULL,
	version      bytea            NOT NULL
)`, movieTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_created_at_idx ON %[1]s (created_at DESC, id)`, movieTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id               uuid        PRIMARY KEY,
	movie_id         uuid        NOT NULL,
	customer_name    text        NOT NULL,
	item_name        text        NOT NULL,
	rental_date      timestamptz NOT NULL,
	return_date      timestamptz NULL,
	daily_rate_cents bigint      NOT NULL CHECK (daily_rate_cents > 0),
	status           text        NOT NULL CHECK (status IN ('Active', 'Returned')),
	version          bytea       NOT NULL,
	CHECK ((status = 'Returned') = (return_date IS NOT NULL)),
	CHECK (return_date IS NULL OR return_date >= rental_date)
)`, rentalTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_rental_date_idx ON %[1]s (rental_date DESC, id)`, rentalTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_movie_id_idx ON %[1]s (movie_id)`, rentalTable),
	}
}
