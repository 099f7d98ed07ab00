package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sangeeta2003/BillBuddy/api"
	"github.com/sangeeta2003/BillBuddy/database"
	"github.com/sangeeta2003/BillBuddy/logging"
	"github.com/sangeeta2003/BillBuddy/notify"
)

// getEnv returns the value of an environment variable, or a fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns the integer value of an environment variable, or a fallback
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	// A .env file is optional; explicit environment wins either way
	godotenv.Load()
	logging.Setup()

	// General flags
	createSchema := flag.Bool("create-schema", false, "create schema")

	// Postgresql flags
	dbHost := flag.String("db-host", getEnv("DB_HOST", "localhost"), "database host")
	dbPort := flag.Int("db-port", getEnvInt("DB_PORT", 5432), "database port")
	dbUser := flag.String("db-user", getEnv("DB_USER", "postgres"), "database user")
	dbPassword := flag.String("db-password", getEnv("DB_PASSWORD", ""), "database password")
	dbName := flag.String("db-name", getEnv("DB_NAME", "billbuddy"), "database name")

	// Redis flags
	redisAddr := flag.String("redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "redis address")
	redisPassword := flag.String("redis-password", getEnv("REDIS_PASSWORD", ""), "redis password")
	redisDb := flag.Int("redis-db", getEnvInt("REDIS_DB", 0), "redis db")

	flag.Parse()

	// Configure Postgresql
	dbConfig := database.Config{
		Host:     *dbHost,
		Port:     *dbPort,
		User:     *dbUser,
		Password: *dbPassword,
		Name:     *dbName,
	}
	db := database.NewPgDatabase(dbConfig)

	// Create a schema if desired
	if *createSchema {
		dbh := db.Connect()
		defer dbh.Close()
		if err := dbh.CreateSchema(); err != nil {
			slog.Error("Failed to create schema", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema has been created")
		return
	}

	// Configure the redis notification sink
	sink := notify.NewRedisSink(notify.Config{
		Addr:     *redisAddr,
		Password: *redisPassword,
		Db:       *redisDb,
	})

	// All systems are go
	api.NewAPI(db, sink).Serve()
}
