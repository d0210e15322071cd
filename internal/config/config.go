package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress string
	StaticDir   string

	GoogleAPIKey string
	LiveModel    string
	KisaanModel  string

	FFmpegPath string

	MandiBaseURL string
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Println("Warning: GOOGLE_API_KEY not set - agent sessions and weather lookups will not work")
	}

	liveModel := os.Getenv("LIVE_MODEL_ID")
	if liveModel == "" {
		liveModel = "gemini-live-2.5-flash-preview"
	}

	kisaanModel := os.Getenv("KISAAN_MODEL_ID")
	if kisaanModel == "" {
		kisaanModel = "gemini-2.5-flash-lite"
	}

	ffmpegPath := os.Getenv("FFMPEG_PATH")
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	mandiBase := os.Getenv("MANDI_BASE_URL")
	if mandiBase == "" {
		mandiBase = "https://agmarknet.ceda.ashoka.edu.in"
	}

	log.Printf("config: HTTP_ADDRESS=%s LIVE_MODEL_ID=%s", addr, liveModel)
	return Config{
		HTTPAddress:  addr,
		StaticDir:    staticDir,
		GoogleAPIKey: apiKey,
		LiveModel:    liveModel,
		KisaanModel:  kisaanModel,
		FFmpegPath:   ffmpegPath,
		MandiBaseURL: mandiBase,
	}
}
