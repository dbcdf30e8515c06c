package app

import (
	"fmt"
	"net/url"
	"strings"
)

// describeDSN summarizes a DSN for logs without its credentials.
func describeDSN(dsn string) string {
	summary, err := parseDSN(dsn)
	if err != nil {
		return "unparsed"
	}
	return summary.String()
}

type dsnSummary struct {
	Type        string
	Host        string
	Port        string
	User        string
	Name        string
	SSLMode     string
	Path        string
	PasswordSet bool
}

func (d dsnSummary) String() string {
	if d.Type == "sqlite" {
		return "sqlite:" + d.Path
	}
	user := d.User
	if d.PasswordSet {
		user += ":***"
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", user, d.Host, d.Port, d.Name, d.SSLMode)
}

func parseDSN(dsn string) (dsnSummary, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return dsnSummary{}, fmt.Errorf("empty dsn")
	}

	lowered := strings.ToLower(trimmed)
	if strings.HasPrefix(lowered, "file:") || (!strings.Contains(trimmed, "://") && !strings.Contains(trimmed, "=")) {
		pathPart := trimmed
		if strings.HasPrefix(lowered, "file:") {
			pathPart = trimmed[len("file:"):]
		}
		pathPart, _, _ = strings.Cut(pathPart, "?")
		return dsnSummary{Type: "sqlite", Path: strings.TrimSpace(pathPart)}, nil
	}

	u, errParse := url.Parse(trimmed)
	if errParse != nil {
		return dsnSummary{}, fmt.Errorf("parse dsn: %w", errParse)
	}

	switch strings.ToLower(strings.TrimSpace(u.Scheme)) {
	case "postgres", "postgresql":
		port := strings.TrimSpace(u.Port())
		if port == "" {
			port = "5432"
		}
		username := ""
		passwordSet := false
		if u.User != nil {
			username = strings.TrimSpace(u.User.Username())
			_, passwordSet = u.User.Password()
		}
		sslMode := strings.TrimSpace(u.Query().Get("sslmode"))
		if sslMode == "" {
			sslMode = "prefer"
		}
		return dsnSummary{
			Type:        "postgres",
			Host:        strings.TrimSpace(u.Hostname()),
			Port:        port,
			User:        username,
			Name:        strings.TrimSpace(strings.TrimPrefix(u.Path, "/")),
			SSLMode:     sslMode,
			PasswordSet: passwordSet,
		}, nil
	default:
		return dsnSummary{}, fmt.Errorf("unsupported dsn scheme")
	}
}
