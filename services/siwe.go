package services

import (
	goctx "context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	log "github.com/sirupsen/logrus"
	"github.com/spruceid/siwe-go"
)

// SiweService parses and verifies Sign-In with Ethereum messages.
// Signatures are checked against the message's declared address first
// as a plain EOA signature, then via ERC-1271 for contract wallets
// when an RPC endpoint is configured.
type SiweService struct {
	context.DefaultService

	config    *ConfigService
	ethClient *ethclient.Client
}

const SIWE_SVC = "siwe_svc"

// isValidSignature(bytes32,bytes) magic return value per ERC-1271.
var erc1271MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

var (
	ErrMalformedMessage = errors.New("malformed sign-in message")
	ErrBadSignature     = errors.New("signature verification failed")
)

func (svc SiweService) Id() string {
	return SIWE_SVC
}

func (svc *SiweService) Start() error {
	svc.config = svc.Service(CONFIG_SVC).(*ConfigService)

	if rpcURL := svc.config.EthRPCURL(); rpcURL != "" {
		client, err := ethclient.Dial(rpcURL)
		if err != nil {
			log.WithError(err).Warn("Ethereum RPC unavailable, contract wallet sign-in disabled")
		} else {
			svc.ethClient = client
		}
	}
	return nil
}

func (svc *SiweService) Shutdown() {
	if svc.ethClient != nil {
		svc.ethClient.Close()
	}
}

func (svc *SiweService) ParseMessage(raw string) (*siwe.Message, error) {
	msg, err := siwe.ParseMessage(raw)
	if err != nil {
		return nil, ErrMalformedMessage
	}
	return msg, nil
}

func GenerateNonce() string {
	return siwe.GenerateNonce()
}

// VerifySignature checks the signature against the message's address.
// EOA recovery runs first; if it fails and an RPC client is available,
// the address is queried as an ERC-1271 contract wallet.
func (svc *SiweService) VerifySignature(ctx goctx.Context, msg *siwe.Message, signature string) error {
	if _, err := msg.VerifyEIP191(signature); err == nil {
		return nil
	}

	if svc.ethClient == nil {
		return ErrBadSignature
	}
	if err := svc.verifyERC1271(ctx, msg, signature); err != nil {
		return ErrBadSignature
	}
	return nil
}

func (svc *SiweService) verifyERC1271(ctx goctx.Context, msg *siwe.Message, signature string) error {
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	hash := accounts.TextHash([]byte(msg.String()))
	wallet := msg.GetAddress()

	result, err := svc.ethClient.CallContract(ctx, ethereum.CallMsg{
		To:   &wallet,
		Data: encodeIsValidSignature(hash, sigBytes),
	}, nil)
	if err != nil {
		return fmt.Errorf("isValidSignature call: %w", err)
	}
	if len(result) < 4 || [4]byte(result[:4]) != erc1271MagicValue {
		return errors.New("contract rejected signature")
	}
	return nil
}

// encodeIsValidSignature ABI-encodes isValidSignature(bytes32,bytes).
func encodeIsValidSignature(hash []byte, sig []byte) []byte {
	selector := []byte{0x16, 0x26, 0xba, 0x7e}

	data := make([]byte, 0, 4+32+32+32+len(sig)+32)
	data = append(data, selector...)
	data = append(data, ethcommon.LeftPadBytes(hash, 32)...)
	// offset of the bytes argument (two head slots)
	data = append(data, ethcommon.LeftPadBytes([]byte{0x40}, 32)...)
	data = append(data, ethcommon.LeftPadBytes(big.NewInt(int64(len(sig))).Bytes(), 32)...)
	data = append(data, sig...)
	if pad := len(sig) % 32; pad != 0 {
		data = append(data, make([]byte, 32-pad)...)
	}
	return data
}
