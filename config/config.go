package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	ServerPort        string
	TesseractDataPath string
	OCRLanguage       string
	PaddleOCRURL      string
	MaxFileSize       int64
	MinTextLength     int
	DataDir           string
	GitHubToken       string
	GitHubRepository  string
}

// LoadConfig reads the environment, after loading .env files when present.
func LoadConfig() *Config {
	_ = godotenv.Load(".env", ".env.local")

	return &Config{
		AppEnv:            getEnv("APP_ENV", "production"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		TesseractDataPath: getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "nor"),
		PaddleOCRURL:      getEnv("PADDLEOCR_API_URL", ""),
		MaxFileSize:       int64(getEnvInt("MAX_FILE_SIZE_MB", 10)) * 1024 * 1024,
		MinTextLength:     getEnvInt("MIN_TEXT_LENGTH", 50),
		DataDir:           getEnv("DATA_DIR", ""),
		GitHubToken:       getEnv("GITHUB_TOKEN", ""),
		GitHubRepository:  getEnv("GITHUB_REPOSITORY", "gigavenvidere/ggv-oppgjor"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt falls back to def for missing, malformed or negative values.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
