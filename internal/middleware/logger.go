package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	appLogger *log.Logger
)

// maxLoggedBody caps how much of a request body is written to the log
const maxLoggedBody = 1000

var passwordField = regexp.MustCompile(`("password"\s*:\s*)"(?:[^"\\]|\\.)*"`)

// InitLogger initializes the file-based logging system
// Logs are saved in the logs folder as a single app.log file
func InitLogger(logDir string) error {
	absLogDir, err := filepath.Abs(logDir)
	if err != nil {
		absLogDir = logDir
	}

	if err := os.MkdirAll(absLogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", absLogDir, err)
	}

	currentDate := time.Now().Format("2006-01-02")

	appLogFile := &lumberjack.Logger{
		Filename:   filepath.Join(absLogDir, fmt.Sprintf("app-%s.log", currentDate)),
		MaxSize:    10, // MB
		MaxBackups: 30,
		MaxAge:     30, // days
		Compress:   true,
		LocalTime:  true,
	}

	// Write to both file and stdout
	appLogger = log.New(io.MultiWriter(os.Stdout, appLogFile), "", log.LstdFlags)

	// Services log through the standard logger
	log.SetOutput(io.MultiWriter(os.Stdout, appLogFile))
	log.SetFlags(log.LstdFlags)

	appLogger.Printf("[INFO] Logger initialized, log directory: %s", absLogDir)
	appLogger.Printf("[INFO] Log file: app-%s.log", currentDate)

	return nil
}

// LogInfo logs info level messages
func LogInfo(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Printf("[INFO] "+format, v...)
	} else {
		log.Printf("[INFO] "+format, v...)
	}
}

// LogError logs error level messages
func LogError(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Printf("[ERROR] "+format, v...)
	} else {
		log.Printf("[ERROR] "+format, v...)
	}
}

// LogDebug logs debug level messages
func LogDebug(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Printf("[DEBUG] "+format, v...)
	} else {
		log.Printf("[DEBUG] "+format, v...)
	}
}

// RequestLoggerMiddleware logs all incoming requests
// Format: METHOD URL | status | latency
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		fullURL := requestURL(c)

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		if statusCode >= 400 {
			LogError("%s %s | status=%d | latency=%v",
				c.Request.Method, fullURL, statusCode, latency)
		} else {
			LogInfo("%s %s | status=%d | latency=%v",
				c.Request.Method, fullURL, statusCode, latency)
		}
	}
}

// WriteLoggerMiddleware logs the body of state-changing requests.
// Passwords are masked and multipart bodies are not read.
// Use this for: reservations, profile updates, account deletion.
func WriteLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		bodyStr := "(multipart)"
		if !strings.HasPrefix(c.ContentType(), "multipart/") {
			var head []byte
			if c.Request.Body != nil {
				// read only what gets logged, then put it back in front
				// of the unread rest
				head, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody+1))
				c.Request.Body = readCloser{
					Reader: io.MultiReader(bytes.NewReader(head), c.Request.Body),
					Closer: c.Request.Body,
				}
			}
			bodyStr = MaskBody(head)
		}

		LogInfo("WRITE %s %s | body=%s", c.Request.Method, requestURL(c), bodyStr)
		c.Next()
	}
}

// MaskBody renders a request body for the log with password values
// replaced and long bodies cut
func MaskBody(body []byte) string {
	if len(body) == 0 {
		return "(empty)"
	}
	s := passwordField.ReplaceAllString(string(body), `$1"***"`)
	if len(s) > maxLoggedBody {
		s = s[:maxLoggedBody] + "..."
	}
	return s
}

type readCloser struct {
	io.Reader
	io.Closer
}

func requestURL(c *gin.Context) string {
	fullURL := c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		fullURL = fullURL + "?" + c.Request.URL.RawQuery
	}
	return fullURL
}
