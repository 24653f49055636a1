package domain

// EmbeddingDim — размерность вектора модели all-MiniLM-L6-v2.
const EmbeddingDim = 384
