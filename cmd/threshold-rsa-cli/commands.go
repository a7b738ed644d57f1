package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shoup/threshold-rsa/pkg/csprng"
	"github.com/shoup/threshold-rsa/protocols/shoup"
	"github.com/shoup/threshold-rsa/protocols/shoup/combiner"
	"github.com/shoup/threshold-rsa/protocols/shoup/config"
	"github.com/shoup/threshold-rsa/protocols/shoup/dealer"
	"github.com/shoup/threshold-rsa/protocols/shoup/signer"
)

func runKeygen(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	rng, err := csprng.New()
	if err != nil {
		return fmt.Errorf("failed to seed random source: %w", err)
	}

	key, err := dealer.KeyGen(rng, bits, parties, thresh, thresh-1)
	if err != nil {
		return fmt.Errorf("keygen failed: %w", err)
	}

	shares, err := dealer.GenerateShares(rng, key, parties, thresh)
	if err != nil {
		return fmt.Errorf("share generation failed: %w", err)
	}

	verification, err := dealer.GenerateVerification(rng, key.Public(), shares)
	if err != nil {
		return fmt.Errorf("verification generation failed: %w", err)
	}

	keyData, err := config.MarshalPrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}
	keyPath := filepath.Join(configDir, "private-key.cbor")
	if err := os.WriteFile(keyPath, keyData, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	for _, s := range shares {
		data, err := config.MarshalShare(&s)
		if err != nil {
			return fmt.Errorf("failed to marshal share %d: %w", s.Index, err)
		}
		path := filepath.Join(configDir, fmt.Sprintf("share-%d.cbor", s.Index))
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write share %d: %w", s.Index, err)
		}
	}

	verificationPath := filepath.Join(configDir, "verification.cbor")
	if err := writeVerification(verificationPath, verification); err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Generated %d-of-%d threshold key, modulus bit length %d\n", thresh, parties, key.Public().N.BitLen())
	}
	fmt.Printf("Key, shares, and verification data written to %s\n", configDir)
	return nil
}

func runSign(cmd *cobra.Command, args []string) error {
	keyData, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read key config: %w", err)
	}
	key, err := config.UnmarshalPrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse key config: %w", err)
	}

	message, err := readMessage(cmd)
	if err != nil {
		return err
	}

	sharePath := filepath.Join(configDir, fmt.Sprintf("share-%d.cbor", shareIndex))
	shareData, err := os.ReadFile(sharePath)
	if err != nil {
		return fmt.Errorf("failed to read share %d: %w", shareIndex, err)
	}
	share, err := config.UnmarshalShare(shareData)
	if err != nil {
		return fmt.Errorf("failed to parse share %d: %w", shareIndex, err)
	}

	verificationPath := filepath.Join(configDir, "verification.cbor")
	verification, err := readVerification(verificationPath)
	if err != nil {
		return err
	}

	rng, err := csprng.New()
	if err != nil {
		return fmt.Errorf("failed to seed random source: %w", err)
	}

	sigShare, err := signer.SignShare(rng, message, shoup.Delta(len(verification.Vi)), share, key.Public(), verification.V, verification.Vi[share.Index])
	if err != nil {
		return fmt.Errorf("signing failed: %w", err)
	}

	data, err := config.MarshalSignatureShare(sigShare)
	if err != nil {
		return fmt.Errorf("failed to marshal signature share: %w", err)
	}

	out := outputFile
	if out == "" {
		out = filepath.Join(configDir, fmt.Sprintf("sigshare-%d.cbor", shareIndex))
	}
	if err := os.WriteFile(out, data, 0600); err != nil {
		return fmt.Errorf("failed to write signature share: %w", err)
	}

	fmt.Printf("Signature share from party %d written to %s\n", shareIndex, out)
	return nil
}

func runVerifyShare(cmd *cobra.Command, args []string) error {
	keyData, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read key config: %w", err)
	}
	key, err := config.UnmarshalPrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse key config: %w", err)
	}

	message, err := readMessage(cmd)
	if err != nil {
		return err
	}

	shareData, err := os.ReadFile(shareFile)
	if err != nil {
		return fmt.Errorf("failed to read signature share: %w", err)
	}
	sigShare, err := config.UnmarshalSignatureShare(shareData)
	if err != nil {
		return fmt.Errorf("failed to parse signature share: %w", err)
	}

	verificationPath := filepath.Join(configDir, "verification.cbor")
	verification, err := readVerification(verificationPath)
	if err != nil {
		return err
	}

	ok, err := combiner.VerifyProof(message, verification.V, shoup.Delta(len(verification.Vi)), sigShare, verification.Vi[sigShare.Index], key.Public())
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	if !ok {
		fmt.Printf("Signature share from party %d: INVALID\n", sigShare.Index)
		os.Exit(1)
	}
	fmt.Printf("Signature share from party %d: valid\n", sigShare.Index)
	return nil
}

func runCombine(cmd *cobra.Command, args []string) error {
	keyData, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read key config: %w", err)
	}
	key, err := config.UnmarshalPrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse key config: %w", err)
	}

	message, err := readMessage(cmd)
	if err != nil {
		return err
	}

	verificationPath := filepath.Join(configDir, "verification.cbor")
	verification, err := readVerification(verificationPath)
	if err != nil {
		return err
	}

	shares := make(map[int]*shoup.SignatureShare, len(shareFiles))
	var subset []int
	for _, path := range shareFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read signature share %s: %w", path, err)
		}
		sigShare, err := config.UnmarshalSignatureShare(data)
		if err != nil {
			return fmt.Errorf("failed to parse signature share %s: %w", path, err)
		}
		shares[sigShare.Index] = sigShare
		subset = append(subset, sigShare.Index)
	}

	y, err := combiner.Combine(message, shoup.Delta(len(verification.Vi)), shares, subset, key.Public(), len(verification.Vi))
	if err != nil {
		return fmt.Errorf("combine failed: %w", err)
	}

	out := outputFile
	if out == "" {
		out = filepath.Join(configDir, "signature.hex")
	}
	if err := os.WriteFile(out, []byte(hex.EncodeToString(y.Bytes())), 0600); err != nil {
		return fmt.Errorf("failed to write signature: %w", err)
	}

	fmt.Printf("Combined signature from %d shares written to %s\n", len(shares), out)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	keyData, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read key config: %w", err)
	}
	key, err := config.UnmarshalPrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse key config: %w", err)
	}

	message, err := readMessage(cmd)
	if err != nil {
		return err
	}

	sigHex, err := os.ReadFile(signatureFile)
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	sigBytes, err := hex.DecodeString(string(sigHex))
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}
	y := new(big.Int).SetBytes(sigBytes)

	if combiner.Verify(message, y, key.Public()) {
		fmt.Println("Signature: valid")
		return nil
	}
	fmt.Println("Signature: INVALID")
	os.Exit(1)
	return nil
}
