package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	AI       AI
	Auth     Auth
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// AI holds the hosted language model configuration. Challenge generation and
// similarity checks go through an OpenAI-compatible endpoint (DeepSeek by
// default), while feedback scoring uses the OpenAI API.
type AI struct {
	Enabled         bool
	OpenAIAPIKey    string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	FeedbackModel   string
	GenerationModel string
}

type Auth struct {
	JWTSecret string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1")
	viper.SetDefault("FEEDBACK_MODEL", "gpt-4o-mini")
	viper.SetDefault("GENERATION_MODEL", "deepseek-chat")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.AI.Enabled = viper.GetBool("AI_ENABLED")
	config.AI.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	config.AI.DeepSeekAPIKey = viper.GetString("DEEPSEEK_API_KEY")
	config.AI.DeepSeekBaseURL = viper.GetString("DEEPSEEK_BASE_URL")
	config.AI.FeedbackModel = viper.GetString("FEEDBACK_MODEL")
	config.AI.GenerationModel = viper.GetString("GENERATION_MODEL")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")

	log.Info().Str("port", config.Server.Port).Bool("ai_enabled", config.AI.Enabled).Msg("Config loaded")
	return &config, nil
}
