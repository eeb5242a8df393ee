package stocks

import (
	"context"

	"investory/internal/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedStock struct {
	Code        string
	Name        string
	EnglishName string
	Market      types.Market
	Sector      string
	Price       string
	PrevClose   string
}

// Fixed reference universe. Inserted once at startup; existing rows keep
// their simulator-driven prices.
var seedStocks = []seedStock{
	{"005930", "Samsung Electronics", "Samsung Electronics", types.MarketKOSPI, "Semiconductors", "71500", "71000"},
	{"000660", "SK Hynix", "SK Hynix", types.MarketKOSPI, "Semiconductors", "135000", "133500"},
	{"035420", "NAVER", "NAVER Corp", types.MarketKOSPI, "Internet", "215000", "213000"},
	{"035720", "Kakao", "Kakao Corp", types.MarketKOSPI, "Internet", "56000", "56900"},
	{"005380", "Hyundai Motor", "Hyundai Motor", types.MarketKOSPI, "Automotive", "185000", "184000"},
	{"263750", "Pearl Abyss", "Pearl Abyss", types.MarketKOSDAQ, "Gaming", "32500", "32000"},
	{"293490", "Kakao Games", "Kakao Games", types.MarketKOSDAQ, "Gaming", "27800", "28100"},
	{"AAPL", "Apple", "Apple Inc", types.MarketNASDAQ, "Technology", "175.50", "174.20"},
	{"MSFT", "Microsoft", "Microsoft Corp", types.MarketNASDAQ, "Technology", "378.90", "376.50"},
	{"NVDA", "NVIDIA", "NVIDIA Corp", types.MarketNASDAQ, "Semiconductors", "495.20", "490.00"},
	{"TSLA", "Tesla", "Tesla Inc", types.MarketNASDAQ, "Automotive", "248.40", "251.00"},
	{"AMZN", "Amazon", "Amazon.com Inc", types.MarketNASDAQ, "E-Commerce", "146.80", "145.90"},
	{"GOOGL", "Alphabet", "Alphabet Inc", types.MarketNASDAQ, "Internet", "139.60", "138.80"},
	{"META", "Meta Platforms", "Meta Platforms Inc", types.MarketNASDAQ, "Internet", "334.90", "331.70"},
}

func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, st := range seedStocks {
		_, err := pool.Exec(ctx, `
			insert into stocks (code, name, english_name, market, sector, current_price, previous_close, is_active)
			values ($1, $2, $3, $4, $5, $6, $7, true)
			on conflict (code) do nothing
		`, st.Code, st.Name, st.EnglishName, string(st.Market), st.Sector, st.Price, st.PrevClose)
		if err != nil {
			return err
		}
	}
	return nil
}
