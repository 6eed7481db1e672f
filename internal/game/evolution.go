package game

// EvolutionInfo is the display label of a building level.
type EvolutionInfo struct {
	Name        string
	Description string
}

var evolutions = map[BuildingCategory][MaxBuildingLevel]EvolutionInfo{
	Hotel: {
		{"Terreno", "Um lote vazio preparado para futuras construções destinadas a hospedagem."},
		{"Airbnb", "Pequenas unidades de aluguel de curto prazo gerando fluxo inicial de hóspedes."},
		{"Pousada", "Estabelecimento acolhedor com quartos confortáveis e serviços básicos de hotelaria."},
		{"Mansão", "Propriedade luxuosa transformada em estadia premium de altíssimo padrão."},
	},
	CompanyBuilding: {
		{"Terreno", "Área reservada para futura expansão corporativa."},
		{"Escritório", "Primeira sede com poucas salas administrativas."},
		{"Centro Comercial", "Conjunto de operações coordenadas com departamentos e infraestrutura ampliada."},
		{"Empresa", "Corporação estabelecida com marca forte e receita elevada."},
	},
	House: {
		{"Terreno", "Lote residencial vazio aguardando construção."},
		{"Flat", "Unidade compacta moderna com serviços básicos e baixo custo de manutenção."},
		{"Casa", "Residência confortável de médio porte atraindo moradores mais estáveis."},
		{"Mansão", "Residência luxuosa de alto padrão elevando significativamente o valor da área."},
	},
	Special: {
		{"Circo", "Espetáculos itinerantes que começam a atrair visitantes ocasionais."},
		{"Shopping", "Grande complexo comercial diversificado com lojas e entretenimento."},
		{"Estádio", "Arena multiuso para eventos esportivos e grandes shows, gerando alto fluxo."},
		{"Aeroporto", "Infraestrutura estratégica conectando a região nacional e internacionalmente."},
	},
}

var unknownEvolution = EvolutionInfo{"Nível desconhecido", "Não há descrição disponível."}

// Evolution returns the label for a building category at level 1..4.
func Evolution(c BuildingCategory, level int) EvolutionInfo {
	track, ok := evolutions[c]
	if !ok || level < 1 || level > MaxBuildingLevel {
		return unknownEvolution
	}
	return track[level-1]
}
