package ranger

import "os"

// GetEnv returns the environment variable name, or defaultValue if unset
func GetEnv(name string, defaultValue string) string {
	value, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue
	}
	return value
}
