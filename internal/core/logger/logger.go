package logger // Nome do pacote 'logger' para evitar conflito com var 'logger'

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core" // Para Config
)

var (
	mu  sync.RWMutex
	log *logrus.Logger // Variável global para o logger

	// fallback é usado antes de SetupLogger: texto simples no stderr.
	fallback = func() *logrus.Logger {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		return l
	}()
)

// appFieldsHook adiciona nome e versão da aplicação em todas as entradas.
type appFieldsHook struct {
	app, version string
}

func (h appFieldsHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appFieldsHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = h.app
	}
	if _, ok := e.Data["version"]; !ok {
		e.Data["version"] = h.version
	}
	return nil
}

// LogFileName é o arquivo de log derivado do nome da aplicação ("Processo Cadastro GO" -> processo_cadastro_go.log).
func LogFileName(appName string) string {
	name := strings.ToLower(strings.Join(strings.Fields(appName), "_"))
	if name == "" {
		name = "app"
	}
	return name + ".log"
}

// SetupLogger inicializa o logger global da aplicação.
// Deve ser chamado uma vez no início.
func SetupLogger(cfg *core.Config) error {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		fmt.Fprintf(os.Stderr, "Nível de log inválido '%s', usando INFO: %v\n", cfg.LogLevel, err)
	}
	if cfg.AppDebug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601 com milissegundos
	})
	l.AddHook(appFieldsHook{app: cfg.AppName, version: cfg.AppVersion})

	logDirAbs, err := filepath.Abs(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("diretório de log inválido '%s': %w", cfg.LogDir, err)
	}
	if err := os.MkdirAll(logDirAbs, os.ModePerm); err != nil {
		return fmt.Errorf("falha ao criar diretório de log '%s': %w", logDirAbs, err)
	}
	logFilePath := filepath.Join(logDirAbs, LogFileName(cfg.AppName))

	maxSizeMB := cfg.LogMaxBytes / (1024 * 1024)
	if maxSizeMB < 1 {
		maxSizeMB = 1
	}
	fileLogger := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    maxSizeMB, // Em megabytes
		MaxBackups: cfg.LogBackupCount,
		MaxAge:     28, // dias
		Compress:   true,
	}

	writers := []io.Writer{fileLogger}
	if cfg.LogToConsole {
		writers = append(writers, os.Stderr)
	}
	l.SetOutput(io.MultiWriter(writers...))

	UseLogger(l)
	l.Infof("Logger configurado. Nível: %s. Arquivo: %s", level.String(), logFilePath)
	return nil
}

// UseLogger troca o logger global. Usado pelos testes para descartar ou capturar a saída.
func UseLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if log == nil {
		return fallback
	}
	return log
}

func Debug(args ...interface{})                 { current().Debug(args...) }
func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }
func Info(args ...interface{})                  { current().Info(args...) }
func Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func Warn(args ...interface{})                  { current().Warn(args...) }
func Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func Error(args ...interface{})                 { current().Error(args...) }
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }

// Fatal e Fatalf registram a mensagem e encerram o processo com código 1.
func Fatal(args ...interface{})                 { current().Fatal(args...) }
func Fatalf(format string, args ...interface{}) { current().Fatalf(format, args...) }

// WithFields retorna uma entry com contexto estruturado.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return current().WithFields(fields)
}
