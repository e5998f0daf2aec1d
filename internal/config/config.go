package config

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type ChainConfig struct {
	RPCURL            string
	ChainID           int64
	RegistryAddress   string
	ReputationAddress string
	USDCAddress       string
	ExplorerBaseURL   string
}

type DifyConfig struct {
	RouterURL   string
	RouterKey   string
	WorkflowURL string
	WorkflowKey string
	MerchantURL string
	MerchantKey string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

type Config struct {
	DB_URL       string
	Port         string
	JWTSecret    string
	Environment  string
	GeminiAPIKey string
	MapsAPIKey   string
	FrontendURL  string
	CorsConfig   cors.Options
	Chain        ChainConfig
	Dify         DifyConfig
	R2           R2Config
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:5173")

	return Config{
		DB_URL:       getEnv("DB_URL", ""),
		Port:         getEnv("PORT", "8080"),
		JWTSecret:    getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		Environment:  getEnv("ENV", "development"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		MapsAPIKey:   getEnv("GOOGLE_MAPS_API_KEY", ""),
		FrontendURL:  frontendURL,
		CorsConfig:   corsConfig(frontendURL),
		Chain: ChainConfig{
			RPCURL:            getEnv("CHAIN_RPC_URL", "https://sepolia.base.org"),
			ChainID:           84532, // Base Sepolia
			RegistryAddress:   getEnv("REGISTRY_ADDRESS", "0x8004aa63c570c570ebf15376c0db199918bfe9fb"),
			ReputationAddress: getEnv("REPUTATION_ADDRESS", "0x8004bd8daB57f14Ed299135749a5CB5c42d341BF"),
			USDCAddress:       getEnv("USDC_ADDRESS", "0x036cbd53842c5426634e7929541ec2318f3dcf7e"),
			ExplorerBaseURL:   getEnv("EXPLORER_BASE_URL", "https://sepolia.basescan.org"),
		},
		Dify: DifyConfig{
			RouterURL:   getEnv("DIFY_ROUTER_API_URL", ""),
			RouterKey:   getEnv("DIFY_ROUTER_API_KEY", ""),
			WorkflowURL: getEnv("DIFY_WORKFLOW_API_URL", ""),
			WorkflowKey: getEnv("DIFY_WORKFLOW_API_KEY", ""),
			MerchantURL: getEnv("DIFY_MERCHANT_API_URL", ""),
			MerchantKey: getEnv("DIFY_MERCHANT_API_KEY", ""),
		},
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
			PublicBaseURL:   getEnv("R2_PUBLIC_BASE_URL", ""),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func corsConfig(frontendURL string) cors.Options {
	origins := []string{"http://localhost:5173"}
	if frontendURL != "" && frontendURL != "http://localhost:5173" {
		origins = append(origins, frontendURL)
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
