package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port            string
	BackendURL      string
	BackendTimeout  time.Duration
	DBDSN           string
	TaxRate         decimal.Decimal
	ShippingFlat    int64
	FreeShippingMin int64
	LogFile         string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	backend := os.Getenv("BACKEND_URL")
	if backend == "" {
		backend = "http://localhost:8000/api"
	}
	timeout := 10 * time.Second
	if v := os.Getenv("BACKEND_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "tienda.db"
	} // sqlite file in project root

	// 19% IVA unless overridden
	taxRate := decimal.NewFromFloat(0.19)
	if v := os.Getenv("TAX_RATE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			taxRate = d
		}
	}
	shipFlat := envInt64("SHIPPING_FLAT", 5000)
	freeMin := envInt64("FREE_SHIPPING_MIN", 50000)

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./tienda.log"
	}

	cfg := Config{
		Port:            port,
		BackendURL:      backend,
		BackendTimeout:  timeout,
		DBDSN:           dsn,
		TaxRate:         taxRate,
		ShippingFlat:    shipFlat,
		FreeShippingMin: freeMin,
		LogFile:         logFile,
	}
	log.Printf("[config] PORT=%s BACKEND_URL=%s DB_DSN=%s TAX_RATE=%s SHIPPING_FLAT=%d FREE_SHIPPING_MIN=%d",
		cfg.Port, cfg.BackendURL, cfg.DBDSN, cfg.TaxRate, cfg.ShippingFlat, cfg.FreeShippingMin)
	return cfg
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}
