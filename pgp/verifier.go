package pgp

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Check interface
var (
	_ Verifier = &GoVerifier{}
)

// GoVerifier is implementation of Verifier interface using OpenPGP library
type GoVerifier struct {
	keyRingFiles []string
	keyring      openpgp.EntityList
}

// NewGoVerifier creates verifier over keyring files
func NewGoVerifier(keyrings ...string) *GoVerifier {
	return &GoVerifier{keyRingFiles: keyrings}
}

// AddKeyring adds keyring file to the list, takes effect on next InitKeyring
func (g *GoVerifier) AddKeyring(keyring string) {
	g.keyRingFiles = append(g.keyRingFiles, keyring)
}

var armorPrefix = []byte("-----BEGIN")

// readKeyRing loads either armored or binary keyring
func readKeyRing(r io.Reader) (openpgp.EntityList, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(armorPrefix))
	if bytes.Equal(head, armorPrefix) {
		return openpgp.ReadArmoredKeyRing(br)
	}
	return openpgp.ReadKeyRing(br)
}

// InitKeyring loads all the keyrings
func (g *GoVerifier) InitKeyring() error {
	g.keyring = nil

	if len(g.keyRingFiles) == 0 {
		log.Warn().Msg("no keyrings configured, signatures can't be verified")
	}

	for _, path := range g.keyRingFiles {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "unable to open keyring")
		}

		entities, err := readKeyRing(f)
		_ = f.Close()
		if err != nil {
			return errors.Wrapf(err, "unable to read keyring %s", path)
		}

		log.Debug().Str("keyring", path).Int("keys", len(entities)).Msg("loaded keyring")
		g.keyring = append(g.keyring, entities...)
	}

	return nil
}

// issuers lists key IDs of signature packets
func issuers(signature []byte) []Key {
	var result []Key

	packets := packet.NewReader(bytes.NewReader(signature))
	for {
		p, err := packets.Next()
		if err != nil {
			return result
		}
		if sig, ok := p.(*packet.Signature); ok && sig.IssuerKeyId != nil {
			result = append(result, KeyFromUint64(*sig.IssuerKeyId))
		}
	}
}

// VerifyDetachedSignature verifies binary or armored detached signature of cleartext
func (g *GoVerifier) VerifyDetachedSignature(signature, cleartext io.Reader) (*KeyInfo, error) {
	raw, err := io.ReadAll(signature)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read signature")
	}

	if bytes.HasPrefix(bytes.TrimSpace(raw), armorPrefix) {
		block, err := armor.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrap(err, "unable to decode armored signature")
		}
		if raw, err = io.ReadAll(block.Body); err != nil {
			return nil, errors.Wrap(err, "unable to decode armored signature")
		}
	}

	signer, err := openpgp.CheckDetachedSignature(g.keyring, cleartext, bytes.NewReader(raw), nil)
	if err != nil {
		if err == pgperrors.ErrUnknownIssuer {
			missing := issuers(raw)
			return &KeyInfo{MissingKeys: missing}, errors.Errorf("signature made by unknown key(s) %v", missing)
		}
		return nil, errors.Wrap(err, "signature verification failed")
	}

	good := KeyFromUint64(signer.PrimaryKey.KeyId)
	log.Debug().Str("key", string(good)).Msg("good signature")

	return &KeyInfo{GoodKeys: []Key{good}}, nil
}
