package service

import "errors"

// Erros de negócio do caixa. Handlers mapeiam cada sentinela para um status
// HTTP via errors.Is; os serviços sempre os embrulham com contexto adicional
// usando fmt.Errorf("...: %w", err).
var (
	// ErrCaixaJaAberto: já existe sessão aberta para a loja no dia.
	ErrCaixaJaAberto = errors.New("já existe um caixa aberto para esta loja neste dia")

	// ErrCaixaDiaEncerrado: o dia de negócio já foi aberto e fechado;
	// o fechamento é terminal — um novo dia inicia uma nova sessão.
	ErrCaixaDiaEncerrado = errors.New("o caixa deste dia já foi fechado e não pode ser reaberto")

	// ErrSemCaixaAberto: fechar/consultar exige sessão aberta e não há nenhuma.
	ErrSemCaixaAberto = errors.New("não há caixa aberto para esta loja neste dia")

	// ErrCaixaFechado: tentativa de registrar movimento em sessão não aberta.
	// Verificado no momento da gravação, dentro da mesma transação que cria
	// o movimento — nunca em uma leitura anterior separada.
	ErrCaixaFechado = errors.New("o caixa não está aberto; movimento não registrado")

	// ErrValorInvalido: valores monetários fora do permitido
	// (abertura/fechamento negativos, movimento com valor zero ou negativo).
	ErrValorInvalido = errors.New("valor monetário inválido")

	ErrLojaNaoEncontrada   = errors.New("loja não encontrada")
	ErrSessaoNaoEncontrada = errors.New("sessão de caixa não encontrada")

	// ErrRepositorioIndisponivel: falha de transporte/armazenamento. Leituras
	// podem ser repetidas com backoff; gravações nunca são repetidas às cegas.
	ErrRepositorioIndisponivel = errors.New("armazenamento indisponível")

	// ErrResultadoIncerto: timeout com resultado desconhecido. O chamador deve
	// reconsultar o estado antes de decidir repetir, para não duplicar
	// movimentos cuja gravação pode ter sido efetivada.
	ErrResultadoIncerto = errors.New("tempo esgotado: o resultado da operação é desconhecido")
)
