package utils

/**
 * Key formatting for the Redis (key, value) pairs, so the key layout lives
 * in one place.
 */

import "fmt"

func FormatOverridesKey(name string) string {
	return fmt.Sprintf("meeple:overrides:%s", name)
}
