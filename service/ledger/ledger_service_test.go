package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"interest/pkg/layout"

	"github.com/bmizerany/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProgram = "So11111111111111111111111111111111111111112"
	testSigner  = "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"
	testMint    = "HzwqbKZw8HxMN6bF2yFZNrht3c2iXXzpKcFu7uBEDKtr"
)

func TestBuilderMintDsc(t *testing.T) {
	b := NewBuilder(testProgram, testSigner)

	ins, err := b.MintDsc(testMint, 40000000, 10000)
	require.Nil(t, err)

	assert.Equal(t, testProgram, ins.Program)
	assert.Equal(t, 2, len(ins.Accounts))
	assert.Equal(t, testSigner, ins.Accounts[0].Address)
	assert.Equal(t, true, ins.Accounts[0].Signer)
	assert.Equal(t, testMint, ins.Accounts[1].Address)
	assert.NotEqual(t, "", ins.TraceID)

	// tag then two little endian uint64 args
	require.Equal(t, layout.DiscriminatorLen+16, len(ins.Data))

	sum := sha256.Sum256([]byte("global:mint_dsc"))
	assert.Equal(t, sum[:layout.DiscriminatorLen], ins.Data[:layout.DiscriminatorLen])
	assert.Equal(t, uint64(40000000), binary.LittleEndian.Uint64(ins.Data[8:16]))
	assert.Equal(t, uint64(10000), binary.LittleEndian.Uint64(ins.Data[16:24]))
}

func TestBuilderLiquidateUserAddsTarget(t *testing.T) {
	b := NewBuilder(testProgram, testSigner)

	target := "2pFfLkkVjhQqz3Xb7j5dNQaiX3CbzJXqkM5JXWhzK2i4"
	ins, err := b.LiquidateUser(testMint, target, 40000000000, 10000)
	require.Nil(t, err)

	require.Equal(t, 3, len(ins.Accounts))
	assert.Equal(t, target, ins.Accounts[2].Address)
	assert.Equal(t, false, ins.Accounts[2].Signer)
}

func TestSerializeInstruction(t *testing.T) {
	b := NewBuilder(testProgram, testSigner)

	ins, err := b.DepositCollateral(testMint, 100000000)
	require.Nil(t, err)

	payload, err := serializeInstruction(ins)
	require.Nil(t, err)

	// program key, account count, two metas, data length, data
	want := layout.PubKeyLen + 1 + 2*(layout.PubKeyLen+2) + 4 + len(ins.Data)
	assert.Equal(t, want, len(payload))

	program, err := layout.PubKeyFromString(testProgram)
	require.Nil(t, err)
	assert.Equal(t, program[:], payload[:layout.PubKeyLen])
	assert.Equal(t, uint8(2), payload[layout.PubKeyLen])
}

func TestSerializeInstructionBadAddress(t *testing.T) {
	b := NewBuilder("not-an-address", testSigner)

	ins, err := b.DepositCollateral(testMint, 1)
	require.Nil(t, err)

	_, err = serializeInstruction(ins)
	require.NotNil(t, err)
}
