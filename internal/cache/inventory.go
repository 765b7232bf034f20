package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"epicfails/internal/models"
)

const (
	TokenKeyPrefix  = "auth:token:%s"
	PodiumKeyPrefix = "podium:%s"
)

const (
	TokenTTL  = 5 * time.Minute
	PodiumTTL = time.Minute
)

// TokenKey keys the token lookup on a digest so raw tokens never reach Redis.
func TokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf(TokenKeyPrefix, hex.EncodeToString(sum[:]))
}

func PodiumKey(category models.Category) string {
	return fmt.Sprintf(PodiumKeyPrefix, category)
}

// PodiumKeys returns the podium key of every category.
func PodiumKeys() []string {
	keys := make([]string, 0, len(models.Categories))
	for _, category := range models.Categories {
		keys = append(keys, PodiumKey(category))
	}
	return keys
}
