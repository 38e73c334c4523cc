package board

import (
	boarderr "board-lab/errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func sender(t *testing.T, hex string) SenderID {
	t.Helper()
	id, err := ParseSenderID(hex)
	require.NoError(t, err)
	return id
}

func TestLedger_Scenario(t *testing.T) {
	req := require.New(t)
	ledger := NewLedger()
	alice := sender(t, "0xa1")
	bob := sender(t, "0xb2")

	// Given an empty board, Alice posts at tick 100
	result, err := ledger.Submit(alice, "hello", 100)
	req.NoError(err)
	req.Equal(0, result.Index)
	req.Equal(Record{Sender: alice, Content: "hello", Timestamp: 100}, result.Record)
	req.Equal(uint64(130), ledger.CooldownExpiry(alice))

	// When Alice posts again inside her cooldown window
	_, err = ledger.Submit(alice, "again", 110)
	var cooldown boarderr.CooldownError
	req.ErrorAs(err, &cooldown)
	req.Equal(uint64(20), cooldown.Remaining)

	// Then Bob is not affected by Alice's cooldown
	result, err = ledger.Submit(bob, "hi", 105)
	req.NoError(err)
	req.Equal(1, result.Index)

	// And Alice may post once her cooldown expired
	result, err = ledger.Submit(alice, "again", 131)
	req.NoError(err)
	req.Equal(2, result.Index)

	records := ledger.ListAll()
	req.Equal([]Record{
		{Sender: alice, Content: "hello", Timestamp: 100},
		{Sender: bob, Content: "hi", Timestamp: 105},
		{Sender: alice, Content: "again", Timestamp: 131},
	}, records)
}

func TestLedger_Cooldown_Boundaries(t *testing.T) {
	req := require.New(t)
	ledger := NewLedger()
	alice := sender(t, "0xa1")

	_, err := ledger.Submit(alice, "first", 100)
	req.NoError(err)

	// Resubmitting at the same tick is rejected: ties are only allowed
	// for a sender's very first record
	_, err = ledger.Submit(alice, "same tick", 100)
	req.ErrorIs(err, boarderr.ErrCooldownActive)
	var cooldown boarderr.CooldownError
	req.ErrorAs(err, &cooldown)
	req.Equal(uint64(30), cooldown.Remaining)

	// One tick before expiry still fails
	_, err = ledger.Submit(alice, "early", 129)
	req.ErrorAs(err, &cooldown)
	req.Equal(uint64(1), cooldown.Remaining)

	// Exactly at expiry succeeds
	_, err = ledger.Submit(alice, "on time", 130)
	req.NoError(err)
}

func TestLedger_Content_Boundaries(t *testing.T) {
	req := require.New(t)
	ledger := NewLedger()
	alice := sender(t, "0xa1")

	_, err := ledger.Submit(alice, "", 10)
	req.ErrorIs(err, boarderr.ErrEmptyMessage)

	_, err = ledger.Submit(alice, strings.Repeat("x", 281), 10)
	req.ErrorIs(err, boarderr.ErrMessageTooLong)

	// Length is measured in bytes, not runes
	_, err = ledger.Submit(alice, strings.Repeat("é", 141), 10)
	req.ErrorIs(err, boarderr.ErrMessageTooLong)

	// 280 bytes is inclusive
	result, err := ledger.Submit(alice, strings.Repeat("x", 280), 10)
	req.NoError(err)
	req.Equal(0, result.Index)

	// Rejected submissions never reach the board
	req.Equal(1, ledger.Len())
}

func TestLedger_ValidationOrder_CooldownWins(t *testing.T) {
	req := require.New(t)
	ledger := NewLedger()
	alice := sender(t, "0xa1")

	_, err := ledger.Submit(alice, "first", 100)
	req.NoError(err)

	// An empty message during cooldown reports the cooldown, not emptiness
	_, err = ledger.Submit(alice, "", 110)
	req.ErrorIs(err, boarderr.ErrCooldownActive)
	req.NotErrorIs(err, boarderr.ErrEmptyMessage)
}

func TestLedger_RejectionLeavesStateUntouched(t *testing.T) {
	req := require.New(t)
	ledger := NewLedger()
	alice := sender(t, "0xa1")

	_, err := ledger.Submit(alice, "first", 100)
	req.NoError(err)

	_, err = ledger.Submit(alice, "rejected", 110)
	req.Error(err)

	// The rejection did not move the cooldown window
	req.Equal(uint64(130), ledger.CooldownExpiry(alice))
	req.Equal(1, ledger.Len())
}

func TestLedger_CooldownExpiry_UnknownSender(t *testing.T) {
	ledger := NewLedger()
	require.Equal(t, uint64(0), ledger.CooldownExpiry(sender(t, "0xdead")))
}

func TestLedger_ListAll_SnapshotIsIsolated(t *testing.T) {
	req := require.New(t)
	ledger := NewLedger()
	alice := sender(t, "0xa1")

	_, err := ledger.Submit(alice, "hello", 1)
	req.NoError(err)

	first := ledger.ListAll()
	second := ledger.ListAll()
	req.Equal(first, second)

	// Mutating the returned slice must not leak into the ledger
	first[0].Content = "tampered"
	req.Equal("hello", ledger.ListAll()[0].Content)
}

func TestLedger_ListAll_Empty(t *testing.T) {
	ledger := NewLedger()
	require.Empty(t, ledger.ListAll())
}

func TestLedger_Observer_ExactlyOncePerAcceptedSubmission(t *testing.T) {
	req := require.New(t)

	var notified []Record
	var indices []int
	ledger := NewLedger(func(record Record, index int) {
		notified = append(notified, record)
		indices = append(indices, index)
	})
	alice := sender(t, "0xa1")

	// The observer fires synchronously before Submit returns
	result, err := ledger.Submit(alice, "hello", 5)
	req.NoError(err)
	req.Len(notified, 1)
	req.Equal(result.Record, notified[0])
	req.Equal([]int{0}, indices)

	// Rejected submissions never notify
	_, err = ledger.Submit(alice, "too soon", 6)
	req.Error(err)
	req.Len(notified, 1)
}

func TestLedger_CustomLimits(t *testing.T) {
	req := require.New(t)
	ledger := NewCustomLedger(5, 10)
	alice := sender(t, "0xa1")

	_, err := ledger.Submit(alice, "short", 0)
	req.NoError(err)

	_, err = ledger.Submit(alice, "next", 4)
	req.ErrorIs(err, boarderr.ErrCooldownActive)

	_, err = ledger.Submit(alice, "next", 5)
	req.NoError(err)

	_, err = ledger.Submit(alice, "waaaaay too long", 20)
	req.ErrorIs(err, boarderr.ErrMessageTooLong)
}

func TestLedger_ConcurrentSubmissions_AllSenders(t *testing.T) {
	req := require.New(t)
	ledger := NewLedger()

	// Every goroutine uses its own sender, so no cooldown interference
	const senders = 16
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(n byte) {
			defer wg.Done()
			var id SenderID
			id[AddressLength-1] = n
			_, err := ledger.Submit(id, "concurrent", 50)
			require.NoError(t, err)
		}(byte(i + 1))
	}
	wg.Wait()

	req.Equal(senders, ledger.Len())

	// Indices are dense: every record is observable at its index
	records := ledger.ListAll()
	seen := make(map[SenderID]struct{}, senders)
	for _, r := range records {
		seen[r.Sender] = struct{}{}
	}
	req.Len(seen, senders)
}

func TestParseSenderID(t *testing.T) {
	req := require.New(t)

	short, err := ParseSenderID("0xa1")
	req.NoError(err)
	req.Equal("0x00000000000000000000000000000000000000a1", short.String())

	full, err := ParseSenderID("0x00112233445566778899aabbccddeeff00112233")
	req.NoError(err)
	req.Equal("0x00112233445566778899aabbccddeeff00112233", full.String())

	// Without the 0x prefix
	bare, err := ParseSenderID("B2")
	req.NoError(err)
	req.NotEqual(short, bare)

	_, err = ParseSenderID("0xzz")
	req.Error(err)

	_, err = ParseSenderID("0x0000000000000000000000000000000000000000ff")
	req.Error(err)
}
