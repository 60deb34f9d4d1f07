// Command gensecret prints a fresh base64 encoded secret suitable for the
// SECRET_KEY setting. The service base64-decodes the value into the HMAC
// signing key at startup.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

const secretKeyBytesLen = 32

func main() {
	b := make([]byte, secretKeyBytesLen)

	_, err := rand.Read(b)
	if err != nil {
		fmt.Printf("error while generating secret key: %v", err)
		os.Exit(1)
	}

	fmt.Println(base64.StdEncoding.EncodeToString(b))
}
