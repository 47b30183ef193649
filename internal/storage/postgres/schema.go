package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL,
	balance    NUMERIC(18,2) NOT NULL DEFAULT 0,
	is_debt    BOOLEAN NOT NULL DEFAULT FALSE,
	currency   TEXT NOT NULL DEFAULT 'USD',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS accounts_user_idx ON accounts (user_id);

CREATE TABLE IF NOT EXISTS hourly_account_values (
	account_id TEXT NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL,
	hour_start TIMESTAMPTZ NOT NULL,
	value      NUMERIC(18,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (account_id, hour_start)
);

CREATE TABLE IF NOT EXISTS networth_history (
	user_id    TEXT NOT NULL,
	date       TIMESTAMPTZ NOT NULL,
	value      NUMERIC(18,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, date)
);
`

// performanceFunctionSQL mirrors performance.Delta: a zero start reads as
// +100, -100 or 0 percent depending on the sign of the end value.
const performanceFunctionSQL = `
CREATE OR REPLACE FUNCTION calculate_account_performance(
	user_id_param TEXT,
	start_date    TIMESTAMPTZ,
	end_date      TIMESTAMPTZ
)
RETURNS TABLE (
	account_id      TEXT,
	account_name    TEXT,
	account_type    TEXT,
	is_debt         BOOLEAN,
	start_value     NUMERIC,
	end_value       NUMERIC,
	absolute_change NUMERIC,
	percent_change  NUMERIC
)
LANGUAGE sql STABLE AS $$
	WITH vals AS (
		SELECT a.id, a.name, a.type, a.is_debt, a.created_at,
			COALESCE((SELECT v.value FROM hourly_account_values v
				WHERE v.account_id = a.id AND v.hour_start <= start_date
				ORDER BY v.hour_start DESC LIMIT 1), 0) AS sv,
			COALESCE((SELECT v.value FROM hourly_account_values v
				WHERE v.account_id = a.id AND v.hour_start <= end_date
				ORDER BY v.hour_start DESC LIMIT 1), 0) AS ev
		FROM accounts a
		WHERE a.user_id = user_id_param
	)
	SELECT id, name, type, is_debt, sv, ev, ev - sv,
		CASE
			WHEN sv = 0 THEN CASE WHEN ev > 0 THEN 100.0 WHEN ev < 0 THEN -100.0 ELSE 0.0 END
			ELSE (ev - sv) / ABS(sv) * 100.0
		END
	FROM vals
	ORDER BY created_at, id
$$;
`
