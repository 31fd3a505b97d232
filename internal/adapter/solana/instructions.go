package solana

import (
	"encoding/binary"

	solanago "github.com/gagliardetto/solana-go"
)

// Token program instruction discriminators shared by SPL Token and Token-2022.
const (
	ixTransferChecked byte = 12
	ixBurnChecked     byte = 15

	// CreateIdempotent on the associated token account program.
	ixCreateIdempotent byte = 1
)

func checkedAmountData(discriminator byte, amount uint64, decimals uint8) []byte {
	data := make([]byte, 10)
	data[0] = discriminator
	binary.LittleEndian.PutUint64(data[1:9], amount)
	data[9] = decimals
	return data
}

// burnCheckedInstruction burns amount from account; owner must sign.
func burnCheckedInstruction(tokenProgram, account, mint, owner solanago.PublicKey, amount uint64, decimals uint8) solanago.Instruction {
	return solanago.NewInstruction(
		tokenProgram,
		solanago.AccountMetaSlice{
			solanago.NewAccountMeta(account, true, false),
			solanago.NewAccountMeta(mint, true, false),
			solanago.NewAccountMeta(owner, false, true),
		},
		checkedAmountData(ixBurnChecked, amount, decimals),
	)
}

func transferCheckedInstruction(tokenProgram, source, mint, destination, owner solanago.PublicKey, amount uint64, decimals uint8) solanago.Instruction {
	return solanago.NewInstruction(
		tokenProgram,
		solanago.AccountMetaSlice{
			solanago.NewAccountMeta(source, true, false),
			solanago.NewAccountMeta(mint, false, false),
			solanago.NewAccountMeta(destination, true, false),
			solanago.NewAccountMeta(owner, false, true),
		},
		checkedAmountData(ixTransferChecked, amount, decimals),
	)
}

// createATAIdempotentInstruction creates owner's token account if it does
// not exist yet and is a no-op otherwise.
func createATAIdempotentInstruction(payer, ata, owner, mint, tokenProgram solanago.PublicKey) solanago.Instruction {
	return solanago.NewInstruction(
		solanago.SPLAssociatedTokenAccountProgramID,
		solanago.AccountMetaSlice{
			solanago.NewAccountMeta(payer, true, true),
			solanago.NewAccountMeta(ata, true, false),
			solanago.NewAccountMeta(owner, false, false),
			solanago.NewAccountMeta(mint, false, false),
			solanago.NewAccountMeta(solanago.SystemProgramID, false, false),
			solanago.NewAccountMeta(tokenProgram, false, false),
		},
		[]byte{ixCreateIdempotent},
	)
}

// decodeCheckedAmount parses BurnChecked/TransferChecked data.
func decodeCheckedAmount(data []byte) (discriminator byte, amount uint64, decimals uint8, ok bool) {
	if len(data) != 10 {
		return 0, 0, 0, false
	}
	return data[0], binary.LittleEndian.Uint64(data[1:9]), data[9], true
}
