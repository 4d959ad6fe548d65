package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// Data is the decoded cursor payload: the created_at of the last row on
// the page plus its id as a tiebreaker.
type Data struct {
	Datetime string `json:"datetime"`
	ID       int    `json:"id,omitempty"`
}

func hmacSignature(encoded string) string {
	mac := hmac.New(sha256.New, []byte(os.Getenv("CURSOR_SECRET_KEY")))
	mac.Write([]byte(encoded))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func verifySignature(encoded string, signature string) bool {
	expectedSignature := hmacSignature(encoded)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// Encode builds a signed, opaque pagination token.
func Encode(date string, id int) string {
	data := Data{Datetime: date, ID: id}
	jsonData, _ := json.Marshal(data)
	encoded := base64.StdEncoding.EncodeToString(jsonData)
	signature := hmacSignature(encoded)

	return encoded + "." + signature
}

// Decode validates the signature and unpacks the token.
func Decode(token string) (string, int, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return "", 0, errors.New("invalid cursor format")
	}

	if !verifySignature(parts[0], parts[1]) {
		return "", 0, errors.New("invalid cursor signature")
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[0])

	if err != nil {
		return "", 0, err
	}

	var data Data
	json.Unmarshal(decoded, &data)

	return data.Datetime, data.ID, nil
}
