package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/monopolyforbots/internal/config"
	"github.com/lox/monopolyforbots/internal/dice"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/randutil"
)

func sampleSnapshot(t *testing.T) *game.Snapshot {
	t.Helper()
	board := game.NewBoard([]game.BlockDef{
		{Position: 0, Name: "Início", Category: game.Go},
		{Position: 1, Name: "Avenida", Category: game.Property, Price: 200, BaseRent: 10, Building: game.House, BuildingCosts: [4]int{100, 100, 150, 200}},
		{Position: 2, Name: "Parada", Category: game.FreeParking},
		{Position: 3, Name: "Rua", Category: game.Property, Price: 100, BaseRent: 5, Building: game.Hotel, BuildingCosts: [4]int{50, 50, 50, 50}},
	})
	players := []*game.Player{
		game.NewPlayer("Ana", game.Human),
		game.NewPlayer("Bot 1", game.Bot),
	}
	g := game.New(players, board,
		game.WithRand(randutil.New(7)),
		game.WithDice(dice.Totals(1)),
	)
	g.MoveCurrentPlayer(1)
	require.True(t, g.TryBuyProperty(g.Current(), g.Block(1)))
	return g.Snapshot()
}

// exercise runs the behaviour every Store must share.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	snap := sampleSnapshot(t)

	_, err := s.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "b-game", snap))
	require.NoError(t, s.Save(ctx, "a-game", snap))

	got, err := s.Load(ctx, "b-game")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	restored, err := game.Restore(got)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Block(1).Owner)

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-game", "b-game"}, ids)

	snap.Round = 9
	require.NoError(t, s.Save(ctx, "b-game", snap))
	got, err = s.Load(ctx, "b-game")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Round)

	require.NoError(t, s.Delete(ctx, "a-game"))
	require.ErrorIs(t, s.Delete(ctx, "a-game"), ErrNotFound)
	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b-game"}, ids)

	assert.Error(t, s.Save(ctx, "../escape", snap))
	assert.Error(t, s.Save(ctx, "", snap))
	assert.Error(t, s.Save(ctx, "ok", nil))

	require.NoError(t, s.Close())
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exercise(t, NewMemory())
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemory()
	snap := sampleSnapshot(t)
	require.NoError(t, s.Save(ctx, "g", snap))

	snap.Players[0].Cash = 1
	got, err := s.Load(ctx, "g")
	require.NoError(t, err)
	assert.NotEqual(t, 1, got.Players[0].Cash)
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "games")
	s, err := NewFile(dir, zerolog.Nop())
	require.NoError(t, err)
	exercise(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files must not linger")
	}
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	s, err := NewFile(dir, zerolog.Nop())
	require.NoError(t, err)
	ids, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))
	s, err := NewFile(dir, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestWriteAtomicReplaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeAtomic(path, []byte("one"), 0o600))
	require.NoError(t, writeAtomic(path, []byte("two"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	prefix := "monopolytest-" + time.Now().Format("150405.000000")
	s := NewRedis(RedisOptions{URL: url, Prefix: prefix, MaxIdle: 2, IdleTimeout: time.Minute}, zerolog.Nop())
	t.Cleanup(func() {
		c := s.pool.Get()
		defer c.Close()
		c.Do("DEL", s.key("b-game"), s.setKey())
	})
	exercise(t, s)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s, err := Open(&config.PersistenceSettings{Driver: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(&config.PersistenceSettings{Driver: "file", Path: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(&config.PersistenceSettings{Driver: "redis", RedisURL: "localhost:6379", KeyPrefix: "x", MaxIdle: 1, IdleTimeout: "30s"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, s)
	require.NoError(t, s.Close())

	_, err = Open(&config.PersistenceSettings{Driver: "redis", IdleTimeout: "soon"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = Open(&config.PersistenceSettings{Driver: "etcd"}, zerolog.Nop())
	assert.Error(t, err)
}
