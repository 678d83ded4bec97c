// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package remote

import (
	"fmt"
	"strings"
)

// The statements below run as python in the remote execution context.
// Enumerations assign into a context-level variable first and then print
// slices of it, so every response is a single printed literal that fits
// the text result channel instead of a structured large object.

// CollectDatabases binds the database list in the remote context and
// prints its length.
func CollectDatabases() string {
	return `all_dbs = [x.databaseName for x in spark.sql("show databases").collect()]; print(len(all_dbs))`
}

// SliceDatabases prints one half-open slice of the bound database list.
func SliceDatabases(start, end int) string {
	return fmt.Sprintf("print(all_dbs[%d:%d])", start, end)
}

// CollectTables binds the table list for one database in the remote context.
func CollectTables(db string) string {
	return fmt.Sprintf(`all_tables = [x.tableName for x in spark.sql("show tables in %s").collect()]`, db)
}

// CountTables prints the length of the bound table list.
func CountTables() string {
	return "print(len(all_tables))"
}

// SliceTables prints one half-open slice of the bound table list.
func SliceTables(start, end int) string {
	return fmt.Sprintf("print(all_tables[%d:%d])", start, end)
}

// ShowCreateTable prints the DDL of one table. The collect()[0][0] picks
// the single DDL string out of the result row so the statement prints one
// text literal.
func ShowCreateTable(db, table string) string {
	return fmt.Sprintf(`print(spark.sql("show create table %s.%s").collect()[0][0])`, db, table)
}

// CreateDatabase issues an idempotent database create. Newlines are
// stripped from the name since database names come from directory listings.
func CreateDatabase(db string) string {
	return fmt.Sprintf(`spark.sql("CREATE DATABASE IF NOT EXISTS %s")`, strings.ReplaceAll(db, "\n", ""))
}

// ApplyDDL wraps stored DDL in a triple-quoted literal so multi-line
// statements survive submission as a single python statement.
func ApplyDDL(ddl string) string {
	return fmt.Sprintf(`spark.sql(""" %s """)`, ddl)
}
