package config

import "time"

// StorageConfig selects where uploaded notes are archived.
type StorageConfig struct {
	Mode      string // "local" or "s3"
	UploadDir string
	AWSRegion string
	AWSBucket string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:      getEnv("STORAGE_MODE", "local"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		AWSBucket: getEnv("AWS_BUCKET", "agentdesk-uploads"),
	}
}

// SessionConfig controls the Redis conversation cache.
type SessionConfig struct {
	StoreType string // "redis" or "memory"
	TTL       time.Duration
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		StoreType: getEnv("SESSION_STORE", "redis"),
		TTL:       getEnvDuration("SESSION_TTL", 24*time.Hour),
	}
}
