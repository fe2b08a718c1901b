package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/001-ddl-tables.sql
var InitdbMariaDBTables string

//go:embed initdb/mariadb/002-dml-seed.sql
var InitdbMariaDBSeed string
