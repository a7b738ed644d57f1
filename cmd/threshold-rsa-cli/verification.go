package main

import (
	"fmt"
	"os"

	"github.com/shoup/threshold-rsa/protocols/shoup"
	"github.com/shoup/threshold-rsa/protocols/shoup/config"
)

func writeVerification(path string, vd *shoup.VerificationData) error {
	data, err := config.MarshalVerification(vd)
	if err != nil {
		return fmt.Errorf("failed to marshal verification data: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write verification data: %w", err)
	}
	return nil
}

func readVerification(path string) (*shoup.VerificationData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read verification data: %w", err)
	}
	vd, err := config.UnmarshalVerification(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification data: %w", err)
	}
	return vd, nil
}
