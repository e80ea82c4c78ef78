package mongo

import "errors"

// Stable error types for connection and health failures. Check with
// errors.Is(); the underlying driver error stays attached for logging.
var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongodb")
	ErrEmptyConnectionURL     = errors.New("empty mongodb connection URL")
	ErrEmptyDatabaseName      = errors.New("mongodb database name is required")
	ErrHealthcheckFailed      = errors.New("mongodb healthcheck failed")
)
