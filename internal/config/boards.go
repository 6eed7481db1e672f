package config

// DefaultConfig returns the configuration used when no file exists: the
// basic twenty block board, a Rio board with Chance and Reverse blocks, and
// three bot seats.
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:    "localhost",
			Port:       8080,
			LogLevel:   "info",
			DelayScale: 1,
		},
		Game: &GameSettings{
			Board:             "basic",
			StartingCash:      1500,
			GoSalary:          200,
			SellRefundPercent: 50,
			MaxRounds:         200,
			TaxPolicy:         "fixed",
			TaxDefault:        150,
			ChancePolicy:      "random",
		},
		Persistence: &PersistenceSettings{
			Driver:      "memory",
			KeyPrefix:   "monopoly",
			MaxIdle:     3,
			IdleTimeout: "240s",
		},
		Boards: []BoardConfig{basicBoard(), rioBoard()},
		Bots: []BotConfig{
			{Name: "Bot 1"},
			{Name: "Bot 2"},
			{Name: "Bot 3"},
		},
	}
}

func property(pos int, name, color string, price, rent int) BlockConfig {
	half := price / 2
	return BlockConfig{
		Name:          name,
		Position:      pos,
		Category:      "property",
		Price:         price,
		Rent:          rent,
		Color:         color,
		Building:      "house",
		BuildingCosts: []int{half, half, price, price},
	}
}

func company(pos int, name string, price, rent int) BlockConfig {
	return BlockConfig{
		Name:          name,
		Position:      pos,
		Category:      "company",
		Price:         price,
		Rent:          rent,
		Color:         "#000000",
		Building:      "company",
		BuildingCosts: []int{price / 2, price / 2, price, price},
	}
}

func plain(pos int, name, category string, rent int) BlockConfig {
	return BlockConfig{Name: name, Position: pos, Category: category, Rent: rent}
}

func basicBoard() BoardConfig {
	return BoardConfig{
		Key:  "basic",
		Name: "Basic board",
		Blocks: []BlockConfig{
			plain(0, "GO", "go", 0),
			property(1, "Brown 1", "#8B4513", 60, 2),
			property(2, "Brown 2", "#8B4513", 60, 4),
			plain(3, "Income Tax", "tax", 200),
			company(4, "Station A", 200, 25),
			property(5, "Light Blue 1", "#ADD8E6", 100, 6),
			property(6, "Light Blue 2", "#ADD8E6", 100, 6),
			property(7, "Light Blue 3", "#ADD8E6", 120, 8),
			plain(8, "Jail / Just Visiting", "jail", 0),
			property(9, "Pink 1", "#FFC0CB", 140, 10),
			company(10, "Utility A", 150, 10),
			property(11, "Pink 2", "#FFC0CB", 140, 10),
			property(12, "Pink 3", "#FFC0CB", 160, 12),
			company(13, "Station B", 200, 25),
			property(14, "Orange 1", "#FFA500", 180, 14),
			property(15, "Orange 2", "#FFA500", 180, 14),
			property(16, "Orange 3", "#FFA500", 200, 16),
			plain(17, "Go To Jail", "go_to_jail", 0),
			property(18, "Red 1", "#FF0000", 220, 18),
			property(19, "Red 2", "#FF0000", 220, 18),
		},
	}
}

func rioBoard() BoardConfig {
	hotel := func(b BlockConfig) BlockConfig {
		b.Building = "hotel"
		return b
	}
	special := func(b BlockConfig) BlockConfig {
		b.Building = "special"
		return b
	}
	return BoardConfig{
		Key:       "rio",
		Name:      "Rio de Janeiro",
		TaxPolicy: "percent",
		Blocks: []BlockConfig{
			plain(0, "Início", "go", 0),
			property(1, "Paciência", "#8b4513", 60, 4),
			property(2, "Realengo", "#8b4513", 80, 6),
			plain(3, "Sorte", "chance", 0),
			property(4, "Campo Grande", "#8b4513", 90, 7),
			plain(5, "Imposto de Renda", "tax", 0),
			property(6, "Tijuca", "#27ae60", 140, 10),
			property(7, "Maracanã", "#27ae60", 150, 11),
			plain(8, "Prisão", "jail", 0),
			hotel(property(9, "Humaitá", "#27ae60", 175, 13)),
			company(10, "Porto Maravilha", 200, 20),
			plain(11, "Revés", "reverse", 0),
			hotel(property(12, "Laranjeiras", "#3498db", 220, 16)),
			property(13, "Botafogo", "#3498db", 240, 18),
			plain(14, "Estacionamento", "free_parking", 0),
			property(15, "Flamengo", "#3498db", 260, 20),
			hotel(property(16, "Copacabana", "#3498db", 280, 22)),
			plain(17, "Sorte", "chance", 0),
			special(property(18, "Lagoa", "#d4af37", 300, 26)),
			plain(19, "Vá para a prisão", "go_to_jail", 0),
			hotel(property(20, "São Conrado", "#d4af37", 320, 28)),
			special(company(21, "Galeão", 300, 30)),
			property(22, "Ipanema", "#d4af37", 350, 32),
			hotel(property(23, "Leblon", "#d4af37", 400, 36)),
		},
	}
}
