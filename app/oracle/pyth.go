package oracle

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/flashpred/models"
)

// Pyth v2 price account layout constants. Every field sits at a fixed
// little-endian offset; any deviation from the known constants is a
// malformed feed, never a panic.
const (
	pythMagic            uint32 = 0xa1b2c3d4
	pythVersion          uint32 = 2
	pythAccountTypePrice uint32 = 3
	pythPriceTypePrice   uint32 = 1
	pythStatusTrading    uint32 = 1

	offMagic       = 0
	offVersion     = 4
	offAccountType = 8
	offPriceType   = 16
	offExponent    = 20
	offTimestamp   = 96
	offAggPrice    = 208
	offAggConf     = 216
	offAggStatus   = 224

	priceAccountMinSize = 240
)

// PriceObservation is a validated snapshot of the oracle feed. It is
// produced fresh on every resolve call and never persisted.
type PriceObservation struct {
	Price       int64
	Exponent    int32
	Confidence  uint64
	PublishedAt time.Time

	// Normalized is the aggregate price rescaled to the common 1e6
	// fixed-point convention, directly comparable against a strike.
	Normalized models.Amount
}

// Reader parses and validates raw price-feed account data.
type Reader interface {
	Read(feed []byte, now time.Time) (*PriceObservation, error)
}

type pythReader struct {
	config *Config
}

// NewReader creates a reader for the Pyth price account layout.
func NewReader(config *Config) Reader {
	return &pythReader{config: config}
}

func (r *pythReader) Read(feed []byte, now time.Time) (*PriceObservation, error) {
	if len(feed) < priceAccountMinSize {
		return nil, fmt.Errorf("feed is %d bytes, want at least %d: %w",
			len(feed), priceAccountMinSize, models.ErrOracleMalformed)
	}

	if magic := binary.LittleEndian.Uint32(feed[offMagic:]); magic != pythMagic {
		return nil, fmt.Errorf("bad magic 0x%x: %w", magic, models.ErrOracleMalformed)
	}
	if ver := binary.LittleEndian.Uint32(feed[offVersion:]); ver != pythVersion {
		return nil, fmt.Errorf("unsupported version %d: %w", ver, models.ErrOracleMalformed)
	}
	if atype := binary.LittleEndian.Uint32(feed[offAccountType:]); atype != pythAccountTypePrice {
		return nil, fmt.Errorf("account type %d is not a price account: %w", atype, models.ErrOracleMalformed)
	}
	if ptype := binary.LittleEndian.Uint32(feed[offPriceType:]); ptype != pythPriceTypePrice {
		return nil, fmt.Errorf("price type %d: %w", ptype, models.ErrOracleMalformed)
	}

	if status := binary.LittleEndian.Uint32(feed[offAggStatus:]); status != pythStatusTrading {
		return nil, fmt.Errorf("feed status %d: %w", status, models.ErrOracleNotTrading)
	}

	price := int64(binary.LittleEndian.Uint64(feed[offAggPrice:]))
	expo := int32(binary.LittleEndian.Uint32(feed[offExponent:]))
	conf := binary.LittleEndian.Uint64(feed[offAggConf:])
	publishedAt := time.Unix(int64(binary.LittleEndian.Uint64(feed[offTimestamp:])), 0)

	if price <= 0 {
		return nil, fmt.Errorf("aggregate price %d: %w", price, models.ErrOracleInvalidPrice)
	}

	if age := now.Sub(publishedAt); age > r.config.StaleAfter {
		return nil, fmt.Errorf("observation is %s old, tolerance %s: %w",
			age, r.config.StaleAfter, models.ErrOracleStale)
	}

	// conf / price <= maxBps / 10000, compared cross-multiplied so the
	// check stays exact.
	confScaled := decimal.NewFromUint64(conf).Mul(decimal.NewFromInt(10_000))
	priceScaled := decimal.NewFromInt(price).Mul(decimal.NewFromInt(r.config.MaxConfidenceBps))
	if confScaled.GreaterThan(priceScaled) {
		return nil, fmt.Errorf("confidence %d against price %d exceeds %d bps: %w",
			conf, price, r.config.MaxConfidenceBps, models.ErrOracleUntrusted)
	}

	normalized, err := models.AmountFromDecimal(decimal.New(price, expo))
	if err != nil {
		return nil, fmt.Errorf("normalize price %de%d: %w", price, expo, err)
	}

	return &PriceObservation{
		Price:       price,
		Exponent:    expo,
		Confidence:  conf,
		PublishedAt: publishedAt,
		Normalized:  normalized,
	}, nil
}

// EncodePriceAccount builds a minimal Pyth v2 price account buffer. Used to
// seed the in-memory feed provider in development and in tests.
func EncodePriceAccount(price int64, expo int32, conf uint64, status uint32, publishedAt time.Time) []byte {
	buf := make([]byte, priceAccountMinSize)
	binary.LittleEndian.PutUint32(buf[offMagic:], pythMagic)
	binary.LittleEndian.PutUint32(buf[offVersion:], pythVersion)
	binary.LittleEndian.PutUint32(buf[offAccountType:], pythAccountTypePrice)
	binary.LittleEndian.PutUint32(buf[offPriceType:], pythPriceTypePrice)
	binary.LittleEndian.PutUint32(buf[offExponent:], uint32(expo))
	binary.LittleEndian.PutUint64(buf[offTimestamp:], uint64(publishedAt.Unix()))
	binary.LittleEndian.PutUint64(buf[offAggPrice:], uint64(price))
	binary.LittleEndian.PutUint64(buf[offAggConf:], conf)
	binary.LittleEndian.PutUint32(buf[offAggStatus:], status)
	return buf
}

// StatusTrading is the aggregate status flag accepted by the reader.
const StatusTrading = pythStatusTrading
