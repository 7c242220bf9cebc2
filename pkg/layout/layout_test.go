package layout

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRecordRoundTrip(t *testing.T) {
	var (
		user     PubKey
		borrowed uint64 = 40000000
		mint     PubKey
		hf       uint64 = 1250000
		balance  uint64 = 100000000
		bump     uint8  = 254
	)

	_, _ = io.ReadFull(rand.Reader, user[:])
	_, _ = io.ReadFull(rand.Reader, mint[:])

	buf := append([]byte{}, Discriminator("account", "UserData")...)
	buf, err := Append(buf, user, borrowed, mint, hf, balance, bump)
	require.Nil(t, err)

	var (
		duser     PubKey
		dborrowed uint64
		dmint     PubKey
		dhf       uint64
		dbalance  uint64
		dbump     uint8
	)

	remain, err := ScanRecord(buf, "UserData", &duser, &dborrowed, &dmint, &dhf, &dbalance, &dbump)
	require.Nil(t, err)
	assert.Equal(t, 0, len(remain))
	assert.Equal(t, user, duser)
	assert.Equal(t, borrowed, dborrowed)
	assert.Equal(t, mint, dmint)
	assert.Equal(t, hf, dhf)
	assert.Equal(t, balance, dbalance)
	assert.Equal(t, bump, dbump)
}

func TestScanRecordWrongTag(t *testing.T) {
	buf := append([]byte{}, Discriminator("account", "Deposit")...)
	buf, err := Append(buf, uint64(1))
	require.Nil(t, err)

	var v uint64
	_, err = ScanRecord(buf, "UserData", &v)
	assert.Equal(t, ErrBadDiscriminator, err)
}

func TestScanShortBuffer(t *testing.T) {
	var v uint64
	_, err := Scan([]byte{1, 2, 3}, &v)
	assert.Equal(t, ErrShortBuffer, err)
}

func TestPubKeyString(t *testing.T) {
	var p PubKey
	_, _ = io.ReadFull(rand.Reader, p[:])

	back, err := PubKeyFromString(p.String())
	require.Nil(t, err)
	assert.Equal(t, p, back)

	assert.Equal(t, true, ValidAddress(p.String()))
	assert.Equal(t, false, ValidAddress("not-an-address"))
}

func TestInstruction(t *testing.T) {
	data, err := Instruction("mint_dsc", uint64(1000000), uint64(10000))
	require.Nil(t, err)
	assert.Equal(t, DiscriminatorLen+16, len(data))
}
