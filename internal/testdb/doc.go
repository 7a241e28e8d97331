// Package testdb provides helpers for integration tests that run against a
// real PostgreSQL database.
//
// Tests using it carry the integration build tag and are skipped when no
// database URL is configured:
//
//	//go:build integration
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.SetupTestDatabaseSchema(t, db)
//
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			// every write is rolled back when fn returns
//		})
//	}
package testdb
