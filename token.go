package apns

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Provider token errors.
var (
	ErrPTBad           = errors.New("bad provider token")
	ErrPTBadKeyID      = errors.New("bad provider token key id")
	ErrPTBadTeamID     = errors.New("bad provider token team id")
	ErrPTBadPrivateKey = errors.New("bad provider token private key")
)

// JWTLifeTime contains the lifetime of the provider authentication token,
// after which it is automatically recreated. APNs rejects push messages with
// an ExpiredProviderToken error if the token issue timestamp is not within
// the last hour.
const JWTLifeTime = time.Minute * 55

// ProviderToken holds a provider authentication key and produces signed
// bearer tokens for the HTTP/2 transport. The signed token is cached per
// instance and recomputed when it ages out or the private key changes; it is
// never shared as process-wide state.
type ProviderToken struct {
	teamID     string            // 10 character Team ID
	keyID      string            // 10 character Key ID
	privateKey *ecdsa.PrivateKey // private key for signing
	bearer     string            // cached signed token
	created    time.Time         // cache creation time
	mu         sync.RWMutex
}

// NewProviderToken returns a new ProviderToken with the given team and key
// identifiers. Both values can be obtained from the developer account.
func NewProviderToken(teamID, keyID string) (*ProviderToken, error) {
	if len(teamID) != 10 {
		return nil, ErrPTBadTeamID
	}
	if len(keyID) != 10 {
		return nil, ErrPTBadKeyID
	}
	return &ProviderToken{teamID: teamID, keyID: keyID}, nil
}

// LoadPrivateKey loads a private key from a .p8 file in PKCS8 format.
func (pt *ProviderToken) LoadPrivateKey(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	block, _ := pem.Decode(data)
	if block != nil {
		data = block.Bytes
	}
	private, err := x509.ParsePKCS8PrivateKey(data)
	if err != nil {
		return err
	}
	privateKey, ok := private.(*ecdsa.PrivateKey)
	if !ok {
		return ErrPTBadPrivateKey
	}
	pt.SetPrivateKey(privateKey)
	return nil
}

// SetPrivateKey sets the signing key and drops the cached bearer token.
func (pt *ProviderToken) SetPrivateKey(privateKey *ecdsa.PrivateKey) {
	pt.mu.Lock()
	pt.privateKey = privateKey
	pt.bearer = ""
	pt.created = time.Time{}
	pt.mu.Unlock()
}

// String returns a string with the team and key identifiers.
func (pt *ProviderToken) String() string {
	return fmt.Sprintf("%s:%s", pt.teamID, pt.keyID)
}

const providerTokenPEMType = "APNS TOKEN"

// WritePEM stores the ProviderToken in PEM format. The team and key
// identifiers are kept in the block headers, the private key in the block
// body.
func (pt *ProviderToken) WritePEM(out io.Writer) error {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	if pt.privateKey == nil {
		return ErrPTBadPrivateKey
	}
	privateKey, err := x509.MarshalECPrivateKey(pt.privateKey)
	if err != nil {
		return err
	}
	return pem.Encode(out, &pem.Block{
		Type: providerTokenPEMType,
		Headers: map[string]string{
			"teamID": pt.teamID,
			"keyID":  pt.keyID,
		},
		Bytes: privateKey,
	})
}

// ProviderTokenFromPEM restores a ProviderToken stored with WritePEM.
func ProviderTokenFromPEM(data []byte) (*ProviderToken, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != providerTokenPEMType ||
		block.Headers == nil {
		return nil, ErrPTBad
	}
	pt, err := NewProviderToken(block.Headers["teamID"], block.Headers["keyID"])
	if err != nil {
		return nil, err
	}
	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pt.SetPrivateKey(privateKey)
	return pt, nil
}

// Bearer returns the signed authorization token in JWT format, reusing the
// cached one while it is fresh enough.
func (pt *ProviderToken) Bearer() (string, error) {
	pt.mu.RLock()
	bearer := pt.bearer
	created := pt.created
	pt.mu.RUnlock()
	if bearer != "" && time.Since(created) < JWTLifeTime {
		return bearer, nil
	}
	return pt.sign()
}

// sign creates a new bearer token and stores it in the cache.
func (pt *ProviderToken) sign() (string, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.privateKey == nil {
		return "", ErrPTBadPrivateKey
	}
	created := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": pt.teamID,
		"iat": created.Unix(),
	})
	token.Header["kid"] = pt.keyID
	bearer, err := token.SignedString(pt.privateKey)
	if err != nil {
		return "", err
	}
	pt.bearer = bearer
	pt.created = created
	return bearer, nil
}
