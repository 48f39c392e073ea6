package config

type Config struct {
	Debug    bool     `mapstructure:"debug"`
	Server   Server   `mapstructure:"server"`
	Cors     Cors     `mapstructure:"cors"`
	Metadata Metadata `mapstructure:"metadata"`
	Blobs    Blobs    `mapstructure:"blobs"`
}

type Server struct {
	Address string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port    int          `mapstructure:"port" validate:"required,min=1,max=65535"`
	Limits  ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	MaxUploadSize   uint `mapstructure:"max_upload_size" validate:"required"`
	MaxMultipartMem uint `mapstructure:"max_multipart_mem" validate:"required"`
}

type Cors struct {
	Origins []string `mapstructure:"origins" validate:"dive,url"`
}

type Metadata struct {
	Strategy string                `mapstructure:"strategy" validate:"required,oneof=json sql"`
	JSON     *JSONMetadataStrategy `mapstructure:"json" validate:"required_if=Strategy json"`
	SQL      *SQLMetadataStrategy  `mapstructure:"sql" validate:"required_if=Strategy sql"`
}

type JSONMetadataStrategy struct {
	Path string `mapstructure:"path" validate:"required,abspath"`
}

type SQLMetadataStrategy struct {
	Driver      string  `mapstructure:"driver" validate:"required,oneof=sqlite mysql postgres"`
	DSN         string  `mapstructure:"dsn" validate:"required"`
	TablePrefix *string `mapstructure:"table_prefix"`
}

type Blobs struct {
	Strategy   string                  `mapstructure:"strategy" validate:"required,oneof=filesystem s3"`
	Filesystem *FilesystemBlobStrategy `mapstructure:"filesystem" validate:"required_if=Strategy filesystem"`
	S3         *S3BlobStrategy         `mapstructure:"s3" validate:"required_if=Strategy s3"`
}

type FilesystemBlobStrategy struct {
	Path string `mapstructure:"path" validate:"required,abspath"`
}

type S3BlobStrategy struct {
	AccessKeyId string `mapstructure:"access_key_id" validate:"required"`
	SecretKeyId string `mapstructure:"secret_key_id" validate:"required"`
	Region      string `mapstructure:"region" validate:"required"`
	Bucket      string `mapstructure:"bucket" validate:"required"`
	Endpoint    string `mapstructure:"endpoint"`
	Prefix      string `mapstructure:"prefix"`
}
