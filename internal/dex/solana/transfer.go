package solana

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// Assembler turns an intent into an unsigned transaction bound to blockhash.
type Assembler interface {
	Assemble(ctx context.Context, intent execution.Intent, blockhash solana.Hash) (*solana.Transaction, error)
}

// TransferAssembler stands in for a DEX swap with a native SOL transfer to a fixed destination.
type TransferAssembler struct {
	Payer       solana.PublicKey
	Destination solana.PublicKey
}

// NewTransferAssembler builds an assembler paying from payer to destination.
func NewTransferAssembler(payer, destination solana.PublicKey) *TransferAssembler {
	return &TransferAssembler{Payer: payer, Destination: destination}
}

// Assemble builds a single system transfer. Side is only a label here.
func (a *TransferAssembler) Assemble(_ context.Context, intent execution.Intent, blockhash solana.Hash) (*solana.Transaction, error) {
	if intent.Amount == 0 {
		return nil, errors.New("transfer amount must be positive")
	}
	ix := system.NewTransferInstruction(intent.Amount, a.Payer, a.Destination).Build()
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, blockhash, solana.TransactionPayer(a.Payer))
	if err != nil {
		return nil, fmt.Errorf("build transfer: %w", err)
	}
	return tx, nil
}

// TransferLamports sums the system-program transfers debited from payer in tx.
func TransferLamports(tx *solana.Transaction, payer solana.PublicKey) (uint64, bool) {
	keys := tx.Message.AccountKeys
	var total uint64
	found := false
	for _, ci := range tx.Message.Instructions {
		if int(ci.ProgramIDIndex) >= len(keys) || !keys[ci.ProgramIDIndex].Equals(solana.SystemProgramID) {
			continue
		}
		if len(ci.Accounts) < 2 || int(ci.Accounts[0]) >= len(keys) || !keys[ci.Accounts[0]].Equals(payer) {
			continue
		}
		dec := bin.NewBinDecoder(ci.Data)
		typeID, err := dec.ReadUint32(bin.LE)
		if err != nil || typeID != system.Instruction_Transfer {
			continue
		}
		lamports, err := dec.ReadUint64(bin.LE)
		if err != nil {
			continue
		}
		total += lamports
		found = true
	}
	return total, found
}
