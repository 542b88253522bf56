package devserver

import "github.com/aaravmahajanofficial/teagram/internal/models"

const unsplash = "https://images.unsplash.com/"

// SeedCategories are the catalog's filter chips, in display order.
func SeedCategories() []models.CategoryOption {
	return []models.CategoryOption{
		{ID: models.CategoryGreen, Label: "Зелёный"},
		{ID: models.CategoryBlack, Label: "Чёрный"},
		{ID: models.CategoryOolong, Label: "Улун"},
		{ID: models.CategoryPuer, Label: "Пуэр"},
		{ID: models.CategorySets, Label: "Наборы"},
	}
}

func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "dragonwell-green",
			Name:        "Лунцзин «Изумрудные листья»",
			Description: "Классический китайский зелёный чай с ореховым ароматом и шелковистым послевкусием. Подходит для ежедневного заваривания.",
			Category:    models.CategoryGreen,
			Tags:        []string{"Зелёный", "Ханчжоу", "Весна"},
			Image:       unsplash + "photo-1523905330026-b8bd1f5f320e?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "dragonwell-50", Weight: "50 г", Price: 450},
				{ID: "dragonwell-100", Weight: "100 г", Price: 820},
				{ID: "dragonwell-250", Weight: "250 г", Price: 1850},
			},
		},
		{
			ID:          "biluochun-green",
			Name:        "Билочунь «Изумрудные спирали»",
			Description: "Нежный весенний чай из Цзянсу с фруктовым ароматом и свежим сладким вкусом.",
			Category:    models.CategoryGreen,
			Tags:        []string{"Зелёный", "Цзянсу"},
			Image:       unsplash + "photo-1556679343-c7306c1976bc?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "biluochun-50", Weight: "50 г", Price: 520},
				{ID: "biluochun-100", Weight: "100 г", Price: 960},
			},
		},
		{
			ID:          "lapsang-black",
			Name:        "Чжэншань Сяочжун",
			Description: "Копчёный красный чай из Уишань. Дымный профиль с нотами сухофруктов и шоколада для любителей насыщенных вкусов.",
			Category:    models.CategoryBlack,
			Tags:        []string{"Чёрный", "Уишань", "Копчёный"},
			Image:       unsplash + "photo-1523905330026-b8bd1f5f320e?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "lapsang-50", Weight: "50 г", Price: 480},
				{ID: "lapsang-100", Weight: "100 г", Price: 860},
				{ID: "lapsang-250", Weight: "250 г", Price: 1900},
			},
		},
		{
			ID:          "dianhong-black",
			Name:        "Дяньхун «Золотые почки»",
			Description: "Юньнаньский красный чай с медовой сладостью и мягким хлебным послевкусием.",
			Category:    models.CategoryBlack,
			Tags:        []string{"Чёрный", "Юньнань"},
			Image:       unsplash + "photo-1571934811356-5cc061b6821f?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "dianhong-50", Weight: "50 г", Price: 540},
				{ID: "dianhong-100", Weight: "100 г", Price: 990},
			},
		},
		{
			ID:          "ali-shan-oolong",
			Name:        "Гаошань Алишань Улун",
			Description: "Высокогорный тайваньский улун с цветочным ароматом, сливочным телом и долгим сладким послевкусием.",
			Category:    models.CategoryOolong,
			Tags:        []string{"Улун", "Тайвань", "Высокогорный"},
			Image:       unsplash + "photo-1518977676601-b53f82aba655?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "ali-50", Weight: "50 г", Price: 620},
				{ID: "ali-100", Weight: "100 г", Price: 1150},
				{ID: "ali-250", Weight: "250 г", Price: 2600},
			},
		},
		{
			ID:          "tieguanyin-oolong",
			Name:        "Те Гуань Инь",
			Description: "Слабоферментированный улун из Аньси с сиреневым ароматом и маслянистым настоем.",
			Category:    models.CategoryOolong,
			Tags:        []string{"Улун", "Фуцзянь"},
			Image:       unsplash + "photo-1597318181409-cf64d0b5d8a2?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "tgy-50", Weight: "50 г", Price: 580},
				{ID: "tgy-100", Weight: "100 г", Price: 1080},
			},
		},
		{
			ID:          "sheng-puer",
			Name:        "Шэн Пуэр «Весенние вершины»",
			Description: "Свежий шэн пуэр с бодрящим характером, фруктовыми и цветочными нотами. Отлично подходит для чайных церемоний.",
			Category:    models.CategoryPuer,
			Tags:        []string{"Пуэр", "Юньнань", "Весна"},
			Image:       unsplash + "photo-1447933601403-0c6688de566e?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "sheng-100", Weight: "100 г", Price: 980},
				{ID: "sheng-200", Weight: "200 г", Price: 1750},
				{ID: "sheng-357", Weight: "357 г", Price: 2950},
			},
		},
		{
			ID:          "shu-puer",
			Name:        "Шу Пуэр «Старый лес»",
			Description: "Выдержанный шу пуэр с землистым вкусом и нотами какао. Согревает в холодный день.",
			Category:    models.CategoryPuer,
			Tags:        []string{"Пуэр", "Выдержанный"},
			Image:       unsplash + "photo-1563911892437-1feda0179e1b?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "shu-100", Weight: "100 г", Price: 890},
				{ID: "shu-357", Weight: "357 г", Price: 2700},
			},
		},
		{
			ID:          "tea-set",
			Name:        "Подарочный набор «Пять стихий»",
			Description: "Подборка лучших чаёв сезона в мини-упаковках: зелёный, улун, красный, белый и пуэр в стильной коробке.",
			Category:    models.CategorySets,
			Tags:        []string{"Набор", "Подарок"},
			Image:       unsplash + "photo-1523905330026-b8bd1f5f320e?auto=format&fit=crop&w=600&q=80",
			Variants: []models.ProductVariant{
				{ID: "set-1", Weight: "5 × 25 г", Price: 2500},
				{ID: "set-2", Weight: "5 × 50 г", Price: 4200},
			},
		},
	}
}
