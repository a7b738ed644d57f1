// Command threshold-rsa-cli drives the dealer, signer, and combiner
// packages from the shell: generate a threshold RSA key, hand out shares,
// produce per-share signature proofs, and combine a quorum of them into a
// standard RSA signature.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configDir string
	verbose   bool

	// Keygen flags
	bits     int
	parties  int
	thresh   int

	// Shared I/O flags
	inputFile     string
	outputFile    string
	messageHex    string
	messageFile   string
	shareIndex    int
	shareFile     string
	shareFiles    []string
	signatureFile string

	rootCmd = &cobra.Command{
		Use:   "threshold-rsa-cli",
		Short: "CLI tool for Shoup threshold RSA signatures",
		Long: `A CLI tool for running a trusted-dealer threshold RSA signature scheme:
split an RSA private exponent into shares, sign with a quorum of shares
using non-interactive proofs, and combine the shares into an ordinary
RSA signature.`,
	}

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate a threshold RSA key and shares",
		Long:  `Generate an RSA modulus from two safe primes, split the private exponent into l shares with a k-of-l threshold, and write everything to the config directory.`,
		RunE:  runKeygen,
	}

	signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Produce a signature share with its correctness proof",
		Long:  `Sign a message with a single share and emit the resulting signature share record, including its non-interactive proof of correctness.`,
		RunE:  runSign,
	}

	verifyProofCmd = &cobra.Command{
		Use:   "verify-share",
		Short: "Verify a signature share's proof",
		Long:  `Check that a signature share's non-interactive proof is consistent with the public verification data, without trusting the signer.`,
		RunE:  runVerifyShare,
	}

	combineCmd = &cobra.Command{
		Use:   "combine",
		Short: "Combine signature shares into an RSA signature",
		Long:  `Combine a quorum of verified signature shares into a single standard RSA signature.`,
		RunE:  runCombine,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a combined RSA signature",
		Long:  `Verify that a combined signature is a valid RSA signature of a message under the public key.`,
		RunE:  runVerify,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "d", "./threshold-rsa-data", "Directory for key, share, and signature files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	keygenCmd.Flags().IntVarP(&bits, "bits", "b", 1024, "Total modulus bit length (each safe prime factor has half of it)")
	keygenCmd.Flags().IntVarP(&parties, "parties", "l", 0, "Total number of shareholders (required)")
	keygenCmd.Flags().IntVarP(&thresh, "threshold", "k", 0, "Signing threshold (required)")
	keygenCmd.MarkFlagRequired("parties")
	keygenCmd.MarkFlagRequired("threshold")

	signCmd.Flags().StringVarP(&inputFile, "key", "i", "", "Private key config file (required)")
	signCmd.Flags().IntVar(&shareIndex, "share-index", 0, "Which shareholder's share to sign with (required)")
	signCmd.Flags().StringVar(&messageHex, "message", "", "Message to sign (hex encoded)")
	signCmd.Flags().StringVar(&messageFile, "message-file", "", "File containing the message to sign")
	signCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output signature share file")
	signCmd.MarkFlagRequired("key")
	signCmd.MarkFlagRequired("share-index")

	verifyProofCmd.Flags().StringVarP(&inputFile, "key", "i", "", "Private key config file (required, for public key)")
	verifyProofCmd.Flags().StringVar(&shareFile, "share", "", "Signature share file to verify (required)")
	verifyProofCmd.Flags().StringVar(&messageHex, "message", "", "Message that was signed (hex encoded)")
	verifyProofCmd.Flags().StringVar(&messageFile, "message-file", "", "File containing the message that was signed")
	verifyProofCmd.MarkFlagRequired("key")
	verifyProofCmd.MarkFlagRequired("share")

	combineCmd.Flags().StringVarP(&inputFile, "key", "i", "", "Private key config file (required, for public parameters)")
	combineCmd.Flags().StringSliceVar(&shareFiles, "shares", nil, "Signature share files to combine (required, at least k)")
	combineCmd.Flags().StringVar(&messageHex, "message", "", "Message that was signed (hex encoded)")
	combineCmd.Flags().StringVar(&messageFile, "message-file", "", "File containing the message that was signed")
	combineCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output combined signature file")
	combineCmd.MarkFlagRequired("key")
	combineCmd.MarkFlagRequired("shares")

	verifyCmd.Flags().StringVarP(&inputFile, "key", "i", "", "Private key config file (required, for public key)")
	verifyCmd.Flags().StringVar(&signatureFile, "signature", "", "Combined signature file (required)")
	verifyCmd.Flags().StringVar(&messageHex, "message", "", "Message (hex encoded)")
	verifyCmd.Flags().StringVar(&messageFile, "message-file", "", "File containing the message")
	verifyCmd.MarkFlagRequired("key")
	verifyCmd.MarkFlagRequired("signature")

	rootCmd.AddCommand(keygenCmd, signCmd, verifyProofCmd, combineCmd, verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func readMessage(cmd *cobra.Command) ([]byte, error) {
	if messageFile != "" {
		return os.ReadFile(messageFile)
	}
	if messageHex != "" {
		return hex.DecodeString(messageHex)
	}
	return nil, fmt.Errorf("one of --message or --message-file is required")
}
