package results

// Sample returns the placeholder payload shown before any file is applied.
// Each call returns a fresh copy.
func Sample() Payload {
	return Payload{
		Counts: Counts{Train: 40500, Val: 4500, Test: 5000},
		Epochs: 15,
		Losses: Losses{
			Train: []float64{2.34, 2.10, 1.96, 1.85, 1.76, 1.68, 1.60, 1.54, 1.48, 1.43, 1.39, 1.35, 1.31, 1.28, 1.25},
			Val:   []float64{2.50, 2.30, 2.12, 1.98, 1.92, 1.87, 1.83, 1.80, 1.79, 1.78, 1.77, 1.76, 1.76, 1.75, 1.74},
		},
		Bleu: Scores{
			{Name: "rnn", Value: 0.078},
			{Name: "lstm", Value: 0.145},
			{Name: "gru", Value: 0.132},
			{Name: "transformer", Value: 0.231},
		},
		Examples: []Example{
			{Src: "hola, ¿cómo estás?", Pred: "bonjour, comment ça va ?", Ref: "bonjour, comment vas-tu ?"},
			{Src: "me gusta la comida francesa", Pred: "j'aime la cuisine française", Ref: "j'aime la nourriture française"},
			{Src: "mañana voy a estudiar", Pred: "demain je vais étudier", Ref: "demain je vais étudier"},
		},
	}
}
