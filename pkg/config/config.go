package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kr/pretty"
)

type Config struct {
	ServerPort   string
	PrettyPrint  bool
	GuestMethods []string
	Mongodb      MongodbConfig
	Jwt          JwtConfig
}

func ReadConfig() (*Config, error) {
	serverPort := os.Getenv(ServerPort)
	if serverPort == "" {
		serverPort = DefaultServerPort
		fmt.Printf("server port environment variable is empty its declared %s by default\n", DefaultServerPort)
	}

	prettyPrint, _ := strconv.ParseBool(os.Getenv(PrettyPrint))

	mongodbConfig, err := ReadMongodbConfig()
	if err != nil {
		return nil, err
	}

	jwtConfig, err := ReadJwtConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:   serverPort,
		PrettyPrint:  prettyPrint,
		GuestMethods: ReadGuestMethods(),
		Mongodb:      mongodbConfig,
		Jwt:          jwtConfig,
	}, nil
}

func (c *Config) Print() {
	_, _ = pretty.Println(c)
}

func ReadMongodbConfig() (MongodbConfig, error) {
	mongodbUrl := os.Getenv(MongodbUrl)
	if mongodbUrl == "" {
		mongodbUrl = DefaultMongodbUrl
	}

	mongodbDatabase := os.Getenv(MongodbDatabase)
	if mongodbDatabase == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbDatabase)
	}

	return MongodbConfig{
		Url:      mongodbUrl,
		Username: os.Getenv(MongodbUsername),
		Password: os.Getenv(MongodbPassword),
		Database: mongodbDatabase,
	}, nil
}

func ReadJwtConfig() (JwtConfig, error) {
	signature := os.Getenv(JwtSignature)
	if signature == "" {
		// An empty signature would let anyone forge tokens, refuse to start.
		return JwtConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, JwtSignature)
	}

	lifetime := DefaultJwtLifetime
	rawLifetime := os.Getenv(JwtLifetime)
	if rawLifetime != "" {
		hours, err := strconv.Atoi(rawLifetime)
		if err != nil || hours <= 0 {
			return JwtConfig{}, fmt.Errorf("%s variable is not a valid amount of hours", JwtLifetime)
		}
		lifetime = time.Duration(hours) * time.Hour
	}

	return JwtConfig{
		Signature: signature,
		Lifetime:  lifetime,
	}, nil
}

func ReadGuestMethods() []string {
	rawGuestMethods := os.Getenv(GuestPrivileges)
	if rawGuestMethods == "" {
		return []string{fiber.MethodGet}
	}

	var guestMethods []string
	for _, method := range strings.Split(rawGuestMethods, ",") {
		method = strings.ToUpper(strings.TrimSpace(method))
		if method != "" {
			guestMethods = append(guestMethods, method)
		}
	}

	return guestMethods
}
