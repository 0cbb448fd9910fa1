// Package statsapi é um serviço HTTP somente leitura de atributos de Pokémon.
//
// Visão Geral:
// No boot o serviço lê um documento por id (diretório local ou S3), junta a
// tabela de preços (arquivo, S3, DynamoDB, Redis, Postgres ou SQLite) e monta
// um snapshot imutável. Todas as consultas rodam em memória sobre esse
// snapshot.
//
// Sub-Pacotes Principais:
//
// 1. pkg/creature:
//   - Entity, Stats e o Snapshot com busca por id e por nome (case-insensitive).
//
// 2. pkg/dataset:
//   - Carga concorrente por id com pool limitado, relatório de ids descartados.
//   - Origens de preço plugáveis por URI.
//
// 3. pkg/query e pkg/rules:
//   - Filtros de faixa, ordenação estável, paginação e ranking bst/preço.
//   - Filtro livre "where" em CEL.
//
// 4. pkg/transport e pkg/graphql:
//   - Rotas REST (gorilla/mux), /health, GraphQL e adaptador Lambda.
//
// Exemplo de Início Rápido:
//
//	CONFIG_FILE_PATH=./service.yaml go run ./cmd/server
//	curl 'localhost:3000/pokemon?attack_min=80&sort=bst&order=desc&limit=5'
//	curl 'localhost:3000/pokemon/budget-picks?budget=200'
//
// Para validar uma configuração ou inspecionar a carga sem subir o servidor:
//
//	go run ./cmd/toolkit validate -file ./service.yaml
//	go run ./cmd/toolkit inspect -file ./service.yaml
package statsapi
