package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpLength = 6
	otpTTL    = 10 * time.Minute
)

// GenerateOTP returns a random numeric one-time password.
func GenerateOTP() (string, error) {
	digits := make([]byte, otpLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0') + byte(n.Int64())
	}
	return string(digits), nil
}

// RedisOTPStore keeps reset OTPs in Redis with a 10 minute expiry.
// Storing a new OTP replaces any outstanding one for the same email.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore constructs a RedisOTPStore.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(email string) string {
	return fmt.Sprintf("stocktrace:pwreset:%s", email)
}

// Put stores the OTP under the email key with expiry.
func (s *RedisOTPStore) Put(ctx context.Context, email, otp string) error {
	return s.client.Set(ctx, otpKey(email), otp, otpTTL).Err()
}

// Consume validates the OTP and deletes it so it can only be used once.
func (s *RedisOTPStore) Consume(ctx context.Context, email, otp string) (bool, error) {
	stored, err := s.client.GetDel(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == otp, nil
}

var _ OTPStore = (*RedisOTPStore)(nil)
