// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package launchpad provides typed client bindings for the on-chain token
// launchpad program: instruction builders, account codecs and the sale and
// vesting arithmetic the program applies, so clients can validate and predict
// outcomes before paying fees.
package launchpad

import (
	"crypto/sha256"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/padfi/launchpad-go/provider"
)

// ProgramName is the name the program is registered under for name based
// resolution, matching the program's workspace name.
const ProgramName = "launchpad"

var (
	programMu sync.RWMutex

	// programID is the deployed launchpad program address.
	programID = solana.MustPublicKeyFromBase58("AjUxmZYjhXbJq5yDDvxe8Hh2amWnAjLN2Wmf5oET8mZ1")
)

func init() {
	provider.RegisterProgram(ProgramName, programID)
}

// ProgramID returns the launchpad program address.
func ProgramID() solana.PublicKey {
	programMu.RLock()
	defer programMu.RUnlock()

	return programID
}

// SetProgramID overrides the program address, for deployments under a
// different address (like test validators with a fresh program keypair).
func SetProgramID(id solana.PublicKey) {
	programMu.Lock()
	defer programMu.Unlock()

	programID = id
	provider.RegisterProgram(ProgramName, id)
}

// Instruction discriminators, the sha256("global:<method>") 8-byte prefixes
// anchor dispatches on.
var (
	initializeDiscriminator        = [8]byte{175, 175, 109, 31, 13, 152, 155, 237}
	registerTokenDiscriminator     = [8]byte{32, 146, 36, 240, 80, 183, 36, 84}
	addSaleRoundDiscriminator      = [8]byte{88, 239, 80, 19, 30, 29, 242, 49}
	activateSaleRoundDiscriminator = [8]byte{246, 203, 169, 129, 252, 170, 16, 232}
	purchaseTokensDiscriminator    = [8]byte{142, 1, 16, 160, 115, 120, 55, 254}
	claimTokensDiscriminator       = [8]byte{108, 216, 210, 231, 0, 212, 42, 64}
)

// anchorDiscriminator returns the 8-byte anchor discriminator for the given
// namespaced name, like "global:initialize" or "account:TokenSale".
func anchorDiscriminator(namespace, name string) [8]byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))

	var resp [8]byte
	copy(resp[:], h[:8])

	return resp
}
