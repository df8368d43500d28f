/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// APIKeyPrefix marks public API key identifiers.
	APIKeyPrefix = "dk_"
	// APISecretPrefix marks one-time API secrets.
	APISecretPrefix = "ds_"

	apiKeyEntropyBytes    = 32
	apiSecretEntropyBytes = 64
)

// GenerateKeyMaterial produces a random base62 string carrying n bytes of
// entropy under the given prefix. Base62 keeps the value alphanumeric and
// URL-safe.
func GenerateKeyMaterial(prefix string, n int) (string, error) {
	entropy := make([]byte, n)
	if _, err := rand.Read(entropy); err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	return prefix + encodeBase62(entropy), nil
}

// HashSecret computes the SHA-256 hash of a secret for storage. The raw
// secret is never persisted.
func HashSecret(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// SecretMatchesHash compares a candidate secret against a stored hash in
// constant time. Hashing first fixes the compared length so the comparison
// cannot branch on a partial match.
func SecretMatchesHash(secret, storedHash string) bool {
	candidate := HashSecret(secret)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1
}

// encodeBase62 converts a byte array to a base62 string (0-9, A-Z, a-z)
func encodeBase62(data []byte) string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	n := new(big.Int).SetBytes(data)
	base := big.NewInt(62)
	zero := big.NewInt(0)
	mod := new(big.Int)

	var result []byte
	for n.Cmp(zero) > 0 {
		n.DivMod(n, base, mod)
		result = append([]byte{alphabet[mod.Int64()]}, result...)
	}

	if len(result) == 0 {
		return string(alphabet[0])
	}

	return string(result)
}
