package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// DefaultFlutterwaveBaseURL is used when FLW_BASE_URL is not set
const DefaultFlutterwaveBaseURL = "https://api.flutterwave.com"

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	FrontendURL  string
	Port         string
	Env          string

	FlutterwaveSecretKey string
	FlutterwaveHashKey   string
	FlutterwaveBaseURL   string

	SendgridAPIKey string
	EmailFrom      string
	EmailFromName  string

	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string

	AllowedOrigins []string
}

// New sets up all config related services
func New() *Config {
	env := os.Getenv("ENV")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	flwBase := os.Getenv("FLW_BASE_URL")
	if flwBase == "" {
		flwBase = DefaultFlutterwaveBaseURL
	}
	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Jesus Festival"
	}

	return &Config{
		URL:                  os.Getenv("DB_URI"),
		DatabaseName:         os.Getenv("DB_NAME"),
		BaseURL:              strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		FrontendURL:          strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		Port:                 os.Getenv("PORT"),
		Env:                  env,
		FlutterwaveSecretKey: os.Getenv("FLW_SECRET_KEY"),
		FlutterwaveHashKey:   os.Getenv("FLW_HASH_SECRET"),
		FlutterwaveBaseURL:   strings.TrimRight(flwBase, "/"),
		SendgridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:            os.Getenv("EMAIL_FROM"),
		EmailFromName:        fromName,
		AdminEmail:           strings.TrimSpace(strings.ToLower(os.Getenv("ADMIN_EMAIL"))),
		AdminPasswordHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AllowedOrigins:       splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err. Only the message reaches the client.
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	WriteJSON(w, httpStatusCode, map[string]string{"message": message})
}

// WriteJSON writes v as the json response body with the given status code
func WriteJSON(w http.ResponseWriter, httpStatusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("failed to encode response", "error", err)
	}
}
