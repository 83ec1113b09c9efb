package models

// ModelRegistry is the set of models passed to AutoMigrate when the server
// starts with --auto-migrate. Production schema changes go through the SQL
// files in migrations/ instead.
var ModelRegistry = []interface{}{
	&User{},
	&WaitlistSignup{},
}
