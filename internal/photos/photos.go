// Package photos stores processed item photos and hands back public URLs.
package photos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store persists photo bytes under a key and returns the URL clients use
// to fetch them.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// NewKey returns a fresh object key such as "2025/05/5f0c...e1.jpg".
func NewKey(now time.Time, ext string) string {
	return fmt.Sprintf("%s/%s%s", now.UTC().Format("2006/01"), uuid.NewString(), ext)
}
