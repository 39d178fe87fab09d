package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every externally supplied setting. It is loaded once in
// main and passed down explicitly; packages never read the environment
// themselves.
type Config struct {
	HTTPAddr string

	MongoURI string
	DBName   string

	// KeyData is the Firebase service account JSON.
	KeyData     string
	DatabaseURL string

	DriveCredentials string
	DriveFolderID    string

	EmailEndpoint string

	FeedLimit int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		MongoURI:         mustGetenv("MONGO_URI"),
		DBName:           getenv("DB_NAME", "neurohub"),
		KeyData:          mustGetenv("KEY_DATA"),
		DatabaseURL:      mustGetenv("FIREBASE_DATABASE_URL"),
		DriveCredentials: getenv("DRIVE_CREDENTIALS", os.Getenv("KEY_DATA")),
		DriveFolderID:    getenv("GOOGLE_DRIVE_FOLDER_ID", ""),
		EmailEndpoint:    getenv("EMAIL_ENDPOINT", ""),
		FeedLimit:        getint("FEED_LIMIT", 50),
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
