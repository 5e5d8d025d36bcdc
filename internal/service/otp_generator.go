package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

const (
	// DefaultOTPDigits — длина одноразового кода
	DefaultOTPDigits = 6
	// DefaultOTPStep — временное окно кода. Код воспроизводим в пределах окна для того же секрета.
	DefaultOTPStep = time.Hour
	otpSecretBytes = 20
)

// CodeGenerator выдает одноразовые числовые коды
type CodeGenerator interface {
	Issue() (string, error)
}

// TOTPGenerator выводит код по схеме HOTP из счетчика временного окна
// и свежего случайного секрета, который генерируется на каждый вызов.
type TOTPGenerator struct {
	digits int
	step   time.Duration
	random io.Reader
	now    func() time.Time
}

// NewTOTPGenerator создает генератор кодов. Нулевые значения заменяются значениями по умолчанию.
func NewTOTPGenerator(digits int, step time.Duration) *TOTPGenerator {
	if digits <= 0 || digits > 9 {
		digits = DefaultOTPDigits
	}
	if step < time.Second {
		step = DefaultOTPStep
	}
	return &TOTPGenerator{
		digits: digits,
		step:   step,
		random: rand.Reader,
		now:    time.Now,
	}
}

// Issue генерирует новый секрет и возвращает код для текущего окна
func (g *TOTPGenerator) Issue() (string, error) {
	secret := make([]byte, otpSecretBytes)
	if _, err := io.ReadFull(g.random, secret); err != nil {
		return "", fmt.Errorf("failed to generate otp secret: %w", err)
	}
	return g.codeAt(secret, g.now()), nil
}

// codeAt возвращает код для секрета в окне, содержащем момент at
func (g *TOTPGenerator) codeAt(secret []byte, at time.Time) string {
	counter := at.Unix() / int64(g.step/time.Second)
	return hotpCode(secret, counter, g.digits)
}

func hotpCode(secret []byte, counter int64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, bin%mod)
}
