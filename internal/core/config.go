package core

import (
	"errors"
	"fmt"
	"log" // Usado para logs iniciais antes que o logger da aplicação esteja configurado
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL é o endereço do api-gpl usado quando APP_API_BASE_URL não está definido.
const DefaultAPIBaseURL = "http://10.1.72.147:80/api-gpl"

// Config struct para armazenar todas as configurações da aplicação
type Config struct {
	AppName    string
	AppVersion string
	AppDebug   bool

	// Servidor HTTP (front end no navegador)
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// API remota de cadastro
	APIBaseURL string
	// APITimeout zero significa que vale o padrão do http.Client (sem timeout).
	APITimeout time.Duration

	// Regras de validação
	CNPJVerifyDigits bool

	// Logging
	LogDir         string
	LogLevel       string
	LogMaxBytes    int
	LogBackupCount int
	LogToConsole   bool

	// Importação em lote
	ImportReportDir string
}

// LoadConfig carrega as configurações do arquivo .env especificado ou encontrado na árvore de diretórios.
func LoadConfig(envPath string) (*Config, error) {
	foundEnvPath, err := findEnvFile(envPath)
	if err != nil {
		log.Printf("Aviso: Arquivo .env em '%s' não encontrado ou inacessível: %v. Usando variáveis de ambiente existentes ou defaults.", envPath, err)
	} else {
		log.Printf("Carregando configurações de: %s", foundEnvPath)
		if err := godotenv.Load(foundEnvPath); err != nil {
			log.Printf("Aviso: Erro ao carregar arquivo .env de '%s': %v. Usando valores padrão ou variáveis de ambiente existentes.", foundEnvPath, err)
		}
	}

	cfg := &Config{}

	cfg.AppName = getEnv("APP_NAME", "Processo Cadastro GO")
	cfg.AppVersion = getEnv("APP_VERSION", "1.0.0-go")
	cfg.AppDebug = getEnvAsBool("APP_DEBUG", false)

	cfg.HTTPAddr = getEnv("APP_HTTP_ADDR", ":8080")
	cfg.HTTPReadTimeout = getEnvAsDuration("APP_HTTP_READ_TIMEOUT", 40)
	cfg.HTTPWriteTimeout = getEnvAsDuration("APP_HTTP_WRITE_TIMEOUT", 120)

	cfg.APIBaseURL = strings.TrimRight(getEnv("APP_API_BASE_URL", DefaultAPIBaseURL), "/")
	cfg.APITimeout = getEnvAsDuration("APP_API_TIMEOUT", 0)

	cfg.CNPJVerifyDigits = getEnvAsBool("APP_CNPJ_VERIFY_DIGITS", true)

	cfg.LogDir = getEnv("APP_LOG_DIR", "./app_logs")
	cfg.LogLevel = strings.ToUpper(getEnv("APP_LOG_LEVEL", "INFO"))
	cfg.LogMaxBytes = getEnvAsInt("APP_LOG_MAX_BYTES", 5*1024*1024) // 5MB
	cfg.LogBackupCount = getEnvAsInt("APP_LOG_BACKUP_COUNT", 7)
	cfg.LogToConsole = getEnvAsBool("APP_LOG_TO_CONSOLE", true)

	cfg.ImportReportDir = getEnv("APP_IMPORT_REPORT_DIR", "./app_exports")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ensureDir(cfg.LogDir, true); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de log essencial '%s': %w", cfg.LogDir, err)
	}
	_ = ensureDir(cfg.ImportReportDir, false)

	log.Println("Configurações carregadas e validadas.")
	return cfg, nil
}

// Validate verifica as configurações críticas.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("APP_API_BASE_URL inválida '%s': %w", c.APIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("APP_API_BASE_URL deve usar http ou https, recebido '%s'", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("APP_API_BASE_URL sem host: '%s'", c.APIBaseURL)
	}
	if c.APITimeout < 0 {
		return errors.New("APP_API_TIMEOUT não pode ser negativo")
	}
	if c.HTTPAddr == "" {
		return errors.New("APP_HTTP_ADDR não pode ser vazio")
	}
	return nil
}

// findEnvFile tenta localizar o arquivo .env.
// Primeiro no path fornecido, depois subindo na árvore de diretórios a partir do CWD.
func findEnvFile(envPath string) (string, error) {
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			absPath, _ := filepath.Abs(envPath)
			return absPath, nil
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("não foi possível obter o diretório de trabalho atual: %w", err)
	}

	for i := 0; i < 5; i++ {
		tryPath := filepath.Join(cwd, ".env")
		if _, err := os.Stat(tryPath); err == nil {
			return tryPath, nil
		}
		parent := filepath.Dir(cwd)
		if parent == cwd { // Chegou à raiz
			break
		}
		cwd = parent
	}
	return "", fmt.Errorf("arquivo .env não encontrado no caminho '%s' ou nos diretórios pais", envPath)
}

// ensureDir garante que um diretório exista, criando-o se necessário.
// Se 'critical' for true, retorna erro em caso de falha. Caso contrário, apenas loga um aviso.
func ensureDir(dirPath string, critical bool) error {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		msg := fmt.Sprintf("Não foi possível resolver o caminho absoluto para '%s': %v", dirPath, err)
		if critical {
			return errors.New(msg)
		}
		log.Println("AVISO:", msg)
		return nil
	}

	if err := os.MkdirAll(absPath, os.ModePerm); err != nil {
		msg := fmt.Sprintf("Não foi possível criar o diretório '%s': %v", absPath, err)
		if critical {
			return errors.New(msg)
		}
		log.Println("AVISO:", msg)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration recupera uma variável de ambiente como time.Duration em segundos, ou retorna um fallback.
func getEnvAsDuration(key string, fallbackSeconds int) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	return time.Duration(fallbackSeconds) * time.Second
}
