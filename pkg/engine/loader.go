package engine

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/stats-api/pkg/awsconf"
	localConfig "github.com/raywall/stats-api/pkg/config"
	"github.com/raywall/stats-api/pkg/config/injector"
	"gopkg.in/yaml.v2"
)

// Load é a função simplificada usada pelo binário e pelo toolkit.
func Load(ctx context.Context, source string) (*localConfig.ServiceConfig, error) {
	return NewUniversalLoader().Load(ctx, source)
}

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// ValueInjector resolve referências ${...} dentro da configuração.
type ValueInjector interface {
	Inject(ctx context.Context, target interface{}) error
}

// UniversalLoader suporta múltiplas fontes de configuração (Local, S3, DynamoDB).
// Sem fonte, parte da configuração embutida (config.Default).
type UniversalLoader struct {
	validator *localConfig.ConfigValidator

	// Campos opcionais; nil usa o cliente real.
	S3       S3Downloader
	Dynamo   DynamoGetter
	Injector ValueInjector
}

// NewUniversalLoader cria uma nova instância.
func NewUniversalLoader() *UniversalLoader {
	return &UniversalLoader{
		validator: localConfig.NewValidator(),
	}
}

// Load detecta o esquema da fonte e carrega a configuração.
func (ul *UniversalLoader) Load(ctx context.Context, source string) (*localConfig.ServiceConfig, error) {
	if source == "" {
		return ul.finish(ctx, localConfig.Default())
	}

	var rawData []byte
	var err error

	switch {
	case strings.HasPrefix(source, "s3://"):
		client := ul.S3
		if client == nil {
			cfg, cfgErr := awsconf.Get(ctx, os.Getenv("AWS_REGION"))
			if cfgErr != nil {
				return nil, fmt.Errorf("erro config aws: %w", cfgErr)
			}
			client = s3.NewFromConfig(cfg)
		}
		rawData, err = ul.loadFromS3Internal(ctx, client, source)

	case strings.HasPrefix(source, "dynamodb://"):
		client := ul.Dynamo
		if client == nil {
			cfg, cfgErr := awsconf.Get(ctx, os.Getenv("AWS_REGION"))
			if cfgErr != nil {
				return nil, fmt.Errorf("erro config aws: %w", cfgErr)
			}
			client = dynamodb.NewFromConfig(cfg)
		}
		rawData, err = ul.loadFromDynamoDBInternal(ctx, client, source)

	default:
		// Default: Arquivo Local
		rawData, err = ul.loadFromFile(source)
	}

	if err != nil {
		return nil, fmt.Errorf("falha leitura config (%s): %w", source, err)
	}

	return ul.parseAndValidate(ctx, rawData)
}

// --- Estratégias de carregamento (métodos internos testáveis) ---

func (ul *UniversalLoader) loadFromFile(path string) ([]byte, error) {
	// Suporta tanto "file://config.yaml" quanto apenas "config.yaml"
	cleanPath := strings.TrimPrefix(path, "file://")
	return os.ReadFile(cleanPath)
}

func (ul *UniversalLoader) loadFromS3Internal(ctx context.Context, client S3Downloader, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL S3 inválida: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (ul *UniversalLoader) loadFromDynamoDBInternal(ctx context.Context, client DynamoGetter, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL DynamoDB inválida: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	// Query Params opcionais: dynamodb://tabela/chave?col=config&pk=id
	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config" // Coluna padrão onde o YAML está salvo
	}

	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id" // Nome padrão da Partition Key
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			pkName: &types.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		return nil, err
	}

	if out.Item == nil {
		return nil, fmt.Errorf("item não encontrado no DynamoDB")
	}

	var itemMap map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &itemMap); err != nil {
		return nil, err
	}

	content, ok := itemMap[colName].(string)
	if !ok {
		return nil, fmt.Errorf("coluna '%s' inválida ou vazia no DynamoDB", colName)
	}

	return []byte(content), nil
}

// parseAndValidate aplica o YAML sobre os defaults e finaliza a configuração.
func (ul *UniversalLoader) parseAndValidate(ctx context.Context, data []byte) (*localConfig.ServiceConfig, error) {
	cfg := localConfig.Default()

	// 1. Unmarshal (YAML -> Struct); campos omitidos mantêm o default
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("YAML malformado: %w", err)
	}

	return ul.finish(ctx, cfg)
}

func (ul *UniversalLoader) finish(ctx context.Context, cfg *localConfig.ServiceConfig) (*localConfig.ServiceConfig, error) {
	// 2. Injection (Env/Secrets/SSM)
	inj := ul.Injector
	if inj == nil {
		inj = injector.New(cfg.Service.Region)
	}
	if err := inj.Inject(ctx, cfg); err != nil {
		return nil, fmt.Errorf("falha na injeção de variáveis: %w", err)
	}

	// 3. Overrides de ambiente (PORT, LOG_LEVEL, DATA_SOURCE...)
	if err := localConfig.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	// 4. Validation
	if ul.validator != nil {
		if err := ul.validator.Validate(cfg); err != nil {
			return nil, fmt.Errorf("validação da configuração falhou: %w", err)
		}
	}

	return cfg, nil
}
