package config

import "time"

const (
	EnvironmentVariableNotDefined = "%s variable is not defined"

	IsAtRemote = "IS_AT_REMOTE"

	ServerPort  = "PORT"
	PrettyPrint = "PRETTY_PRINT"

	GuestPrivileges = "GUEST_PRIVILEGES"

	MongodbUrl      = "MONGODB_URL"
	MongodbDatabase = "MONGODB"
	MongodbUsername = "MONGODB_USERNAME"
	MongodbPassword = "MONGODB_PASSWORD"

	JwtSignature = "JWT_SIGNATURE"
	JwtLifetime  = "JWT_LIFETIME"
)

const (
	DefaultServerPort  = "3000"
	DefaultMongodbUrl  = "mongodb://localhost:27017"
	DefaultJwtLifetime = 9 * time.Hour
)

type MongodbConfig struct {
	Url      string
	Username string
	Password string
	Database string
}

type JwtConfig struct {
	Signature string
	Lifetime  time.Duration
}
